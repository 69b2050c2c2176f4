// Package electionengine implements the election and voting engine inside
// the governance context.
//
// The module owns the election ledger (draft/open/closed/certified state
// machine plus the append-only timeline), ballot validation against the
// ownership registry, pure ownership-weighted results calculation, and the
// jurisdiction-driven compliance rule engine. Business rules live in the
// application/domain layers; infrastructure stays behind ports and adapters.
package electionengine
