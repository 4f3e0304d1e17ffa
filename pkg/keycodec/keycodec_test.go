package keycodec

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
)

const (
	wcspr = "hash-6adfa0f394cce4526c851136dc514d2d616102373a6e05abaaae1fd0f54a2c1b"
	ecto  = "hash-2e52f8fe9ca9d7035ce8c2f84ab0780231226be612766448b878352ca4cd8903"
	owner = "account-hash-00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
)

func TestParse(t *testing.T) {
	t.Parallel()

	id, err := Parse("hash-" + strings.Repeat("aa", 32))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if id.Tag != TagHash {
		t.Fatalf("unexpected tag: %d", id.Tag)
	}
	b := id.Bytes()
	if len(b) != CanonicalSize || b[0] != 1 {
		t.Fatalf("unexpected canonical bytes: %x", b)
	}
	for i := 1; i < CanonicalSize; i++ {
		if b[i] != 0xaa {
			t.Fatalf("byte %d: got %x want aa", i, b[i])
		}
	}

	acct, err := Parse(owner)
	if err != nil {
		t.Fatalf("Parse account error: %v", err)
	}
	if acct.Tag != TagAccount {
		t.Fatalf("account tag: got %d", acct.Tag)
	}
	if acct.String() != owner {
		t.Fatalf("String round trip: got %s", acct.String())
	}

	bare, err := Parse(strings.Repeat("0f", 32))
	if err != nil {
		t.Fatalf("Parse bare error: %v", err)
	}
	if bare.Tag != TagHash {
		t.Fatalf("bare hex should default to hash tag, got %d", bare.Tag)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"short":        "hash-" + strings.Repeat("a", 63),
		"long":         "hash-" + strings.Repeat("a", 66),
		"non_hex":      "hash-" + strings.Repeat("zz", 32),
		"empty":        "",
		"bad_prefix":   "uref-" + strings.Repeat("aa", 32),
		"account_tail": "account-hash-" + strings.Repeat("a", 10),
	}
	for name, in := range cases {
		in := in
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(in); !errors.Is(err, ErrMalformedIdentifier) {
				t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
			}
		})
	}
}

func TestOrderPair_Commutative(t *testing.T) {
	t.Parallel()

	ids := []Identifier{MustParse(wcspr), MustParse(ecto), MustParse(owner), MustParse("hash-" + strings.Repeat("00", 32))}
	for _, a := range ids {
		for _, b := range ids {
			a1, b1 := OrderPair(a, b)
			a2, b2 := OrderPair(b, a)
			if a1 != a2 || b1 != b2 {
				t.Fatalf("OrderPair not commutative for %s, %s", a, b)
			}
			if NewPairKey(a, b) != NewPairKey(b, a) {
				t.Fatalf("NewPairKey not commutative for %s, %s", a, b)
			}
			fb, sb := a1.Bytes(), b1.Bytes()
			if bytes.Compare(fb[:], sb[:]) > 0 {
				t.Fatalf("pair not ascending: %x > %x", fb, sb)
			}
		}
	}
}

func TestOrderPair_AccountSortsFirst(t *testing.T) {
	t.Parallel()

	// tag 0 beats tag 1 regardless of digest
	acct := Identifier{Tag: TagAccount}
	for i := range acct.Digest {
		acct.Digest[i] = 0xff
	}
	h := Identifier{Tag: TagHash}

	first, second := OrderPair(h, acct)
	if first != acct || second != h {
		t.Fatalf("expected account first, got %s then %s", first, second)
	}
}

func TestOrderPair_Identical(t *testing.T) {
	t.Parallel()

	a := MustParse(wcspr)
	b := MustParse(wcspr)
	first, second := OrderPair(a, b)
	if first != a || second != b {
		t.Fatalf("identical identifiers should keep input order")
	}
}

func TestPairKey_Tokens(t *testing.T) {
	t.Parallel()

	a, b := MustParse(wcspr), MustParse(ecto)
	pk := NewPairKey(a, b)
	if len(pk) != 66 {
		t.Fatalf("pair key length: %d", len(pk))
	}
	first, second, err := pk.Tokens()
	if err != nil {
		t.Fatalf("Tokens error: %v", err)
	}
	// ecto digest starts with 0x2e, wcspr with 0x6a
	if first != b || second != a {
		t.Fatalf("unexpected order: %s, %s", first, second)
	}
}

func TestBuildSlotKey(t *testing.T) {
	t.Parallel()

	pk := NewPairKey(MustParse(wcspr), MustParse(ecto))

	tagged := BuildSlotKey(pk, 3, Tagged(0))
	if len(tagged) != 71 || Tagged(0).SlotKeySize() != 71 {
		t.Fatalf("tagged length: got %d want 71", len(tagged))
	}
	if !bytes.Equal(tagged[:5], []byte{0, 0, 0, 3, 0}) {
		t.Fatalf("tagged prefix: %x", tagged[:5])
	}
	if !bytes.Equal(tagged[5:], pk[:]) {
		t.Fatalf("tagged suffix is not the pair key")
	}

	untagged := BuildSlotKey(pk, 0x01020304, Untagged)
	if len(untagged) != 70 || Untagged.SlotKeySize() != 70 {
		t.Fatalf("untagged length: got %d want 70", len(untagged))
	}
	if !bytes.Equal(untagged[:4], []byte{1, 2, 3, 4}) {
		t.Fatalf("index not big-endian: %x", untagged[:4])
	}
	if !bytes.Equal(untagged[4:], pk[:]) {
		t.Fatalf("untagged suffix is not the pair key")
	}

	custom := BuildSlotKey(pk, 0, Tagged(7))
	if custom[4] != 7 {
		t.Fatalf("custom tag byte: got %d", custom[4])
	}
}

func TestDictionaryItemKey_KnownValues(t *testing.T) {
	t.Parallel()

	pk := NewPairKey(MustParse(wcspr), MustParse(ecto))
	tests := []struct {
		index   uint32
		variant Variant
		want    string
	}{
		{0, Tagged(0), "81ce908a422ee9ee51533696906b07df6d003f3fd76a1e7fe18c300af4211605"},
		{0, Untagged, "8941dae030cf4ef643ce8fa532f450f3dd510cdeeb7e003f8fb5b254c7f48480"},
		{3, Tagged(0), "e19dee04c272950317d3f7f77d9bc6e292c641334f5314a520977744290aefb9"},
		{3, Untagged, "d73f7c40f9131d8f37afdb923ad8c6d6c8ffacec256736cce70030118a2a8221"},
	}
	for _, tt := range tests {
		if got := DictionaryItemKey(pk, tt.index, tt.variant); got != tt.want {
			t.Fatalf("index %d %s: got %s want %s", tt.index, tt.variant, got, tt.want)
		}
	}
}

var lowerHex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestDigestToStorageKey(t *testing.T) {
	t.Parallel()

	// blake2b-256 of the empty input
	if got := DigestToStorageKey(nil); got != "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8" {
		t.Fatalf("empty digest: got %s", got)
	}

	pk := NewPairKey(MustParse(wcspr), MustParse(ecto))
	for i := uint32(0); i <= 10; i++ {
		for _, v := range DefaultVariants() {
			k1 := DictionaryItemKey(pk, i, v)
			k2 := DictionaryItemKey(pk, i, v)
			if k1 != k2 {
				t.Fatalf("non-deterministic key at %d/%s", i, v)
			}
			if !lowerHex64.MatchString(k1) {
				t.Fatalf("key not 64 lowercase hex chars: %q", k1)
			}
		}
	}

	if DictionaryItemKey(pk, 0, Tagged(0)) == DictionaryItemKey(pk, 0, Untagged) {
		t.Fatalf("variants should produce distinct keys")
	}
}

func TestNewBlake2bHasher(t *testing.T) {
	t.Parallel()

	h, err := NewBlake2bHasher(32)
	if err != nil {
		t.Fatalf("NewBlake2bHasher error: %v", err)
	}
	in := []byte("pair")
	if h.StorageKey(in) != DigestToStorageKey(in) {
		t.Fatalf("32-byte hasher should match blake2b-256")
	}

	short, err := NewBlake2bHasher(16)
	if err != nil {
		t.Fatalf("NewBlake2bHasher(16) error: %v", err)
	}
	if got := len(short.StorageKey(in)); got != 32 {
		t.Fatalf("16-byte digest hex length: %d", got)
	}

	if _, err := NewBlake2bHasher(65); err == nil {
		t.Fatalf("expected error for oversize digest")
	}
}
