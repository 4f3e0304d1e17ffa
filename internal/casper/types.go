package casper

import "github.com/nulln0ne/casper-swap-estimator/pkg/clvalue"

// StateRootHashResult is the chain_get_state_root_hash result.
type StateRootHashResult struct {
	APIVersion    string `json:"api_version"`
	StateRootHash string `json:"state_root_hash"`
}

// DictionaryIdentifier selects a dictionary item; only the seed URef form is
// used here.
type DictionaryIdentifier struct {
	URef *URefDictionaryIdentifier `json:"URef,omitempty"`
}

type URefDictionaryIdentifier struct {
	SeedURef          string `json:"seed_uref"`
	DictionaryItemKey string `json:"dictionary_item_key"`
}

// DictionaryItemResult is the state_get_dictionary_item result.
type DictionaryItemResult struct {
	APIVersion    string       `json:"api_version"`
	DictionaryKey string       `json:"dictionary_key"`
	StoredValue   *StoredValue `json:"stored_value"`
	MerkleProof   string       `json:"merkle_proof"`
}

// StoredValue holds one of the node's stored value kinds; dictionaries only
// ever hold CLValues.
type StoredValue struct {
	CLValue *clvalue.TypedValue `json:"CLValue,omitempty"`
}
