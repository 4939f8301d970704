package domain

// RegistrySnapshot is an immutable view of the master registry taken at a
// point in time. The posting validator runs against a snapshot so that
// validation stays a pure function, independent of registry mutation.
type RegistrySnapshot struct {
	groups  map[string]LedgerGroup
	ledgers map[string]Ledger
}

// NewRegistrySnapshot builds a snapshot from the given maps. Callers must
// not retain or mutate the maps after handing them over.
func NewRegistrySnapshot(groups map[string]LedgerGroup, ledgers map[string]Ledger) RegistrySnapshot {
	return RegistrySnapshot{groups: groups, ledgers: ledgers}
}

// Ledger looks up a ledger by id.
func (s RegistrySnapshot) Ledger(ledgerID string) (Ledger, bool) {
	l, ok := s.ledgers[ledgerID]
	return l, ok
}

// Group looks up a group by id.
func (s RegistrySnapshot) Group(groupID string) (LedgerGroup, bool) {
	g, ok := s.groups[groupID]
	return g, ok
}

// NatureOf resolves the nature of a ledger through its owning group.
// Groups carry the nature directly, so this is a single lookup.
func (s RegistrySnapshot) NatureOf(ledgerID string) (NatureType, bool) {
	l, ok := s.ledgers[ledgerID]
	if !ok {
		return "", false
	}
	g, ok := s.groups[l.GroupID]
	if !ok {
		return "", false
	}
	return g.Nature, true
}

// Ledgers returns the ledgers in the snapshot. The returned map must be
// treated as read-only.
func (s RegistrySnapshot) Ledgers() map[string]Ledger {
	return s.ledgers
}

// Groups returns the groups in the snapshot. The returned map must be
// treated as read-only.
func (s RegistrySnapshot) Groups() map[string]LedgerGroup {
	return s.groups
}
