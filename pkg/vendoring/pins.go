package vendoring

import "context"

// Pin is one vendored dependency record: repository, pinned revision, and the
// expected sha256 of the revision's tar.gz archive. All three are fixed at
// authoring time; a floating reference is never trusted.
type Pin struct {
	Repo     RepoPair
	Revision string
	Hash     string
}

// Pinned external actions. Revisions are the latest commit behind each
// action's floating tag at the time of vendoring.
var pins = []Pin{
	{
		// Floating tag: v4
		Repo:     RepoPair{Owner: "actions", Repo: "download-artifact"},
		Revision: "65a9edc5881444af0b9093a5e628f2fe47ea3b2e",
		Hash:     "a8711a1218e748f8f067ae8a2400fe6057f822d93df682a4893e0498824766bf",
	},
	{
		// Floating tag: v1
		Repo:     RepoPair{Owner: "ncipollo", Repo: "release-action"},
		Revision: "2c591bcc8ecdcd2db72b97d6147f871fcd833ba5",
		Hash:     "d250495fdc9e5fdb9ba11573a2db0280825ad99b599f9edc2a97c93c8c711dc3",
	},
	{
		// Floating tag: v2
		Repo:     RepoPair{Owner: "Swatinem", Repo: "rust-cache"},
		Revision: "23bce251a8cd2ffc3c1075eaa2367cf899916d84",
		Hash:     "66d5fe3ef0d928c52baa7a604746eb73e23356d8891df65c2d7dd6353bbff97c",
	},
	{
		// Floating tag: v4
		Repo:     RepoPair{Owner: "actions", Repo: "upload-artifact"},
		Revision: "65462800fd760344b1a7b4382951275a0abb4808",
		Hash:     "3574378b2862238bc550b90d3711eb09e9ccb9d8052519d9a23d061e468ed811",
	},
}

// Pins returns the fixed list of vendored dependency records. Callers vendor
// exactly this list; there is no dynamic discovery.
func Pins() []Pin {
	out := make([]Pin, len(pins))
	copy(out, pins)
	return out
}

// VendorAll vendors every pinned dependency under root, sequentially. Two
// verifier invocations must never race on one destination, and vendoring the
// fixed list in order is cheap enough not to parallelize.
func VendorAll(ctx context.Context, v *Verifier, root string) error {
	for _, pin := range Pins() {
		if err := v.Vendor(ctx, root, pin.Repo, pin.Revision, pin.Hash); err != nil {
			return err
		}
	}
	return nil
}
