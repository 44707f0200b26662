// Package ci plans the build/release task graph from resolved configuration:
// it distributes build targets onto runner identities, selects the system
// packages each runner must install, and assembles the task description the
// external template renderer turns into a CI provider's native file.
//
// Planning is pure and deterministic: the same inputs always produce the same
// plan, which is what makes change detection against previously generated
// output possible. Unrecognized target platforms surface as structured
// diagnostics, never errors; planning always completes for any non-empty
// target set.
package ci
