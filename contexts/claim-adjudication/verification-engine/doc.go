// Package verificationengine implements community verification of wildlife
// sighting claims inside the claim-adjudication context.
//
// The module owns guardian stake custody, per-claim voting rounds with
// majority-threshold closure, and settlement of rewards and slashes against
// the external value ledger and claim registry. It keeps business rules in
// application/domain layers and isolates infrastructure concerns behind
// ports and adapters.
package verificationengine
