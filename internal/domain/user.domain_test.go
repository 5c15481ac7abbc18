package domain

import "testing"

func sp(s string) *string { return &s }

func eq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestProfileMergeIncomingWins(t *testing.T) {
	existing := Profile{ID: "u1", FullName: sp("Asha"), Email: sp("old@x.com")}
	incoming := Profile{FullName: sp("Asha Patel"), PhoneNumber: sp("+917877059117")}

	out := existing.Merge(incoming)
	if !eq(out.FullName, sp("Asha Patel")) {
		t.Fatalf("FullName = %v", out.FullName)
	}
	if !eq(out.Email, sp("old@x.com")) {
		t.Fatal("nil incoming field must preserve existing value")
	}
	if !eq(out.PhoneNumber, sp("+917877059117")) {
		t.Fatalf("PhoneNumber = %v", out.PhoneNumber)
	}
}

// The trigger-side insert and the client-side reconciliation write disjoint
// non-null fields in either order; the merged row must converge regardless.
func TestProfileMergeConvergesEitherOrder(t *testing.T) {
	trigger := Profile{FullName: sp("Asha"), Email: sp("asha@x.com")}
	client := Profile{FullName: sp("Asha Patel"), PhoneNumber: sp("+917877059117"), ProductID: sp("DEMO-001")}

	triggerFirst := Profile{}.Merge(trigger).Merge(client)
	clientFirst := Profile{}.Merge(client).Merge(trigger)

	// Overlapping fields take the last writer; gap fields converge.
	if !eq(triggerFirst.PhoneNumber, clientFirst.PhoneNumber) || !eq(triggerFirst.ProductID, clientFirst.ProductID) || !eq(triggerFirst.Email, clientFirst.Email) {
		t.Fatalf("gap fields diverged: %+v vs %+v", triggerFirst, clientFirst)
	}
	if triggerFirst.PhoneNumber == nil || triggerFirst.ProductID == nil || triggerFirst.Email == nil {
		t.Fatal("merge lost a field only one producer carried")
	}
}

func TestProfileMergeIdempotent(t *testing.T) {
	incoming := Profile{FullName: sp("Asha Patel"), Email: sp("asha@x.com")}
	once := Profile{ID: "u1"}.Merge(incoming)
	twice := once.Merge(incoming)
	if !eq(once.FullName, twice.FullName) || !eq(once.Email, twice.Email) {
		t.Fatalf("repeated merge changed the row: %+v vs %+v", once, twice)
	}
}

func TestStrPtr(t *testing.T) {
	if StrPtr("") != nil {
		t.Fatal("empty string must map to nil")
	}
	if p := StrPtr("x"); p == nil || *p != "x" {
		t.Fatalf("StrPtr(\"x\") = %v", p)
	}
}

func TestStagedSignupIdentifierFor(t *testing.T) {
	s := &StagedSignup{Email: "asha@x.com", MobileNumber: "7877059117"}
	if got := s.IdentifierFor(ChannelEmail); got != "asha@x.com" {
		t.Fatalf("email identifier = %q", got)
	}
	if got := s.IdentifierFor(ChannelPhone); got != "7877059117" {
		t.Fatalf("phone identifier = %q", got)
	}
}

func TestStagedSignupMetadata(t *testing.T) {
	s := &StagedSignup{FullName: "Asha Patel", ProductID: "DEMO-001", MobileNumber: "7877059117"}
	m := s.Metadata()
	if m["full_name"] != "Asha Patel" || m["product_id"] != "DEMO-001" || m["phone_number"] != "7877059117" {
		t.Fatalf("metadata = %v", m)
	}
	if _, ok := m["password"]; ok {
		t.Fatal("password must never ride in provider metadata")
	}
}
