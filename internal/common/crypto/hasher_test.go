package crypto

import "testing"

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := &BcryptHasher{}

	digest, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "password123" {
		t.Fatal("digest equals the plaintext password")
	}

	if err := hasher.Compare(digest, "password123"); err != nil {
		t.Errorf("Compare rejected the original password: %v", err)
	}
	if err := hasher.Compare(digest, "password124"); err == nil {
		t.Error("Compare accepted a wrong password")
	}
}

func TestBcryptHasherSaltsPerCall(t *testing.T) {
	hasher := &BcryptHasher{}

	first, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if first == second {
		t.Error("two digests of the same password are identical")
	}
	if err := hasher.Compare(first, "password123"); err != nil {
		t.Errorf("first digest failed verification: %v", err)
	}
	if err := hasher.Compare(second, "password123"); err != nil {
		t.Errorf("second digest failed verification: %v", err)
	}
}

func TestBcryptHasherMalformedDigest(t *testing.T) {
	hasher := &BcryptHasher{}

	if err := hasher.Compare("not-a-bcrypt-digest", "password123"); err == nil {
		t.Error("Compare accepted a malformed digest")
	}
	if err := hasher.Compare("", "password123"); err == nil {
		t.Error("Compare accepted an empty digest")
	}
}
