package scheduling

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/opsroster/scheduler/internal/model"
)

// RankKey is the fixed, ascending-comparable record every candidate is
// scored with (Design Notes: "use a fixed record {primary, secondary,
// tiebreak:u64} with lexicographic comparison" in place of dict-keyed,
// duck-typed scores).
type RankKey struct {
	MemberID  string
	Primary   int    // ledger.count(member, kind)
	Secondary int    // ledger.total(member), scaled by aggressiveness
	TieBreak  uint64 // deterministic hash, last resort
}

// Less reports whether k sorts ahead of other (ascending lexicographic
// order over Primary, Secondary, TieBreak).
func (k RankKey) Less(other RankKey) bool {
	if k.Primary != other.Primary {
		return k.Primary < other.Primary
	}
	if k.Secondary != other.Secondary {
		return k.Secondary < other.Secondary
	}
	return k.TieBreak < other.TieBreak
}

// tieHash is a deterministic 64-bit hash of (member_id, key, kind, seed),
// used only to break ties that survive primary and secondary scoring.
// FNV-1a is the standard library's non-cryptographic hash; nothing in
// the reference stack pulls in a faster or better-distributed third
// party alternative for this kind of small, infrequent keying, so the
// stdlib implementation is used directly.
func tieHash(memberID, key string, kind model.TaskKind, seed int64) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%d", memberID, key, kind, seed)
	return h.Sum64()
}

// SecondaryScore applies the aggressiveness scaling from spec §4.5:
// level 1 leaves total unchanged; levels 2-5 multiply total by
// aggressiveness so a heavily-loaded member is demoted more strongly
// once primary scores tie.
func SecondaryScore(total, aggressiveness int) int {
	if aggressiveness <= 1 {
		return total
	}
	return total * aggressiveness
}

// RankReason describes, in the vocabulary spec §4.5 specifies, why the
// head of a sorted candidate list won.
func RankReason(ranked []RankKey) string {
	if len(ranked) == 1 {
		return "only eligible candidate"
	}
	head, second := ranked[0], ranked[1]
	switch {
	case head.Primary != second.Primary:
		return "lowest primary"
	case head.Secondary != second.Secondary:
		return "tied on primary, lowest total"
	default:
		return "tied on primary+total, lowest hash"
	}
}

// Selector picks one assignee from a non-empty candidate set using the
// fairness ledger's counts, the rank key's lexicographic order, and a
// deterministic tie-break.
type Selector struct {
	ledger *FairnessLedger
	seed   int64
}

// NewSelector binds a selector to the ledger it reads counts from and the
// seed used to compute deterministic tie-breaks.
func NewSelector(ledger *FairnessLedger, seed int64) *Selector {
	return &Selector{ledger: ledger, seed: seed}
}

// SelectionResult carries the chosen candidate (if any), the full ranked
// list for audit purposes, and the reason the head was picked.
type SelectionResult struct {
	Chosen  *MemberInput
	Ranked  []RankKey
	Reason  string
}

// Select ranks candidates for (kind, key, aggressiveness) and returns the
// head of the ascending order, or a nil Chosen (with an empty Ranked
// list) if candidates is empty — callers are expected to have already
// emitted an InsufficientCandidates warning in that case.
func (s *Selector) Select(candidates []MemberInput, kind model.TaskKind, key string, aggressiveness int) SelectionResult {
	if len(candidates) == 0 {
		return SelectionResult{}
	}

	byID := make(map[string]MemberInput, len(candidates))
	ranked := make([]RankKey, 0, len(candidates))
	for _, c := range candidates {
		byID[c.MemberID] = c
		total := s.ledger.Total(c.MemberID)
		ranked = append(ranked, RankKey{
			MemberID:  c.MemberID,
			Primary:   s.ledger.Count(c.MemberID, kind),
			Secondary: SecondaryScore(total, aggressiveness),
			TieBreak:  tieHash(c.MemberID, key, kind, s.seed),
		})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Less(ranked[j]) })

	chosen := byID[ranked[0].MemberID]
	return SelectionResult{
		Chosen: &chosen,
		Ranked: ranked,
		Reason: RankReason(ranked),
	}
}
