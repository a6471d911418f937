package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrNoBank        = errors.New("no bank in destination layer")
)

// Layer is one tier of the warehouse. Rows only ever move upward.
type Layer string

const (
	LayerStaging   Layer = "staging"
	LayerCanonical Layer = "canonical"
	LayerWarehouse Layer = "warehouse"
	LayerMart      Layer = "mart"
)

// Next returns the layer a hand-off from l writes to.
func (l Layer) Next() (Layer, bool) {
	switch l {
	case LayerStaging:
		return LayerCanonical, true
	case LayerCanonical:
		return LayerWarehouse, true
	case LayerWarehouse:
		return LayerMart, true
	}
	return "", false
}

type Entity string

const (
	EntityClients     Entity = "clients"
	EntityCompanies   Entity = "companies"
	EntityBank        Entity = "bank"
	EntityCapital     Entity = "capital"
	EntityAssets      Entity = "assets"
	EntityLiabilities Entity = "liabilities"
)

// AllEntities is the load order used when no entity is named. The bank
// precedes the snapshots because snapshots reference it above staging.
var AllEntities = []Entity{
	EntityClients, EntityCompanies, EntityBank,
	EntityCapital, EntityAssets, EntityLiabilities,
}

func ParseEntity(s string) (Entity, error) {
	e := Entity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllEntities {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntity, s)
}

// ParseEntities accepts a single entity name or "all" (also the empty string).
func ParseEntities(s string) ([]Entity, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return append([]Entity(nil), AllEntities...), nil
	}
	var out []Entity
	for _, part := range strings.Split(s, ",") {
		e, err := ParseEntity(part)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// PartyKind returns the party kind for clients and companies.
func (e Entity) PartyKind() (PartyKind, bool) {
	switch e {
	case EntityClients:
		return PartyClient, true
	case EntityCompanies:
		return PartyCompany, true
	}
	return "", false
}

// FactKind returns the snapshot kind for capital, assets and liabilities.
func (e Entity) FactKind() (FactKind, bool) {
	switch e {
	case EntityCapital:
		return FactCapital, true
	case EntityAssets:
		return FactAssets, true
	case EntityLiabilities:
		return FactLiabilities, true
	}
	return "", false
}
