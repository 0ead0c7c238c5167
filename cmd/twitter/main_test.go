package main

import "testing"

func TestNewRandsAreIndependent(t *testing.T) {
	battle, phrase, err := newRands()
	if err != nil {
		t.Fatal(err)
	}
	if battle == nil || phrase == nil || battle == phrase {
		t.Fatal("battle and phrase sources must be distinct")
	}
}
