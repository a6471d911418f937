package repository

// Store bundles the repos of one connection.
type Store struct {
	DB         *DB
	Parties    *PartyRepo
	Banks      *BankRepo
	Snapshots  *SnapshotRepo
	Aggregates *AggregateRepo
	Ratios     *RatioRepo
}

func NewStore(db *DB) *Store {
	return &Store{
		DB:         db,
		Parties:    NewPartyRepo(db),
		Banks:      NewBankRepo(db),
		Snapshots:  NewSnapshotRepo(db),
		Aggregates: NewAggregateRepo(db),
		Ratios:     NewRatioRepo(db),
	}
}
