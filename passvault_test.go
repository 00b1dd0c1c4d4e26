// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package passvault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "vault-*.bin")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func readFile(t *testing.T, f *os.File) []byte {
	t.Helper()
	path := f.Name()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return data
}

func TestCreateAddSyncReopen(t *testing.T) {
	s, err := Create("hunter2")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer s.Close()

	record := Record{
		Name:      "YouTube",
		Username:  "me@example.com",
		Password:  "swordfish",
		CreatedAt: 1000,
		UpdatedAt: 1000,
	}
	if err := s.Add(record); err != nil {
		t.Fatalf("Add: %v", err)
	}

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data := readFile(t, f)

	reopened, err := Open("hunter2", data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get("youtube")
	if !ok {
		t.Fatal("expected to find record by case-insensitive name")
	}
	if got.Password != "swordfish" {
		t.Fatalf("password = %q, want %q", got.Password, "swordfish")
	}
}

func TestDuplicateAddRejected(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()

	_ = s.Add(Record{Name: "YouTube", Username: "me", Password: "x", CreatedAt: 1, UpdatedAt: 1})

	err := s.Add(Record{Name: "youtube", Username: "other", Password: "y", CreatedAt: 2, UpdatedAt: 2})
	if !errors.Is(err, ErrAppExists) {
		t.Fatalf("Add duplicate = %v, want ErrAppExists", err)
	}
}

func TestDeleteMissingRejected(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	_ = s.Add(Record{Name: "YouTube", Username: "me", Password: "x", CreatedAt: 1, UpdatedAt: 1})

	_, err := s.Delete("Gmail")
	if !errors.Is(err, ErrNoSuchApp) {
		t.Fatalf("Delete missing = %v, want ErrNoSuchApp", err)
	}
}

func TestWrongPassphraseRejected(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	_ = s.Add(Record{Name: "YouTube", Username: "me", Password: "x", CreatedAt: 1, UpdatedAt: 1})

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	_, err := Open("hunter3", data)
	if !errors.Is(err, ErrCorruption) {
		t.Fatalf("Open with wrong passphrase = %v, want ErrCorruption", err)
	}
}

func TestVersionByteCorruption(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	for _, v := range []byte{0x01, 0x03} {
		tampered := append([]byte(nil), data...)
		tampered[3] = v
		_, err := Open("hunter2", tampered)
		if !errors.Is(err, ErrWrongVersion) {
			t.Fatalf("version byte 0x%02x: Open() = %v, want ErrWrongVersion", v, err)
		}
	}
}

func TestOpenRejectsOutOfRangeLog2N(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	for _, log2N := range []byte{0, 21, 255} {
		tampered := append([]byte(nil), data...)
		tampered[4] = log2N
		_, err := Open("hunter2", tampered)
		if !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("log2_n=%d: Open() = %v, want ErrInvalidParameters", log2N, err)
		}
	}
}

func TestCiphertextCorruptionDetected(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	_ = s.Add(Record{Name: "YouTube", Username: "me", Password: "x", CreatedAt: 1, UpdatedAt: 1})

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	tampered := append([]byte(nil), data...)
	tampered[len(tampered)-1] ^= 0x01
	_, err := Open("hunter2", tampered)
	if !errors.Is(err, ErrCorruption) {
		t.Fatalf("tampered ciphertext: Open() = %v, want ErrCorruption", err)
	}
}

func TestHeaderLayoutOnFreshSync(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	if len(data) < 125 {
		t.Fatalf("file too short: %d bytes", len(data))
	}
	if data[0] != 0 || data[1] != 0 || data[2] != 0 || data[3] != 2 {
		t.Fatalf("version bytes = %v, want [0 0 0 2]", data[0:4])
	}
	if data[4] != 12 {
		t.Fatalf("log2_n byte = %d, want 12 (default)", data[4])
	}
	ctLen := len(data) - 125
	if ctLen <= 0 || ctLen%16 != 0 {
		t.Fatalf("ciphertext length %d is not a positive multiple of 16", ctLen)
	}
}

func TestIVUniquenessAcrossSyncs(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	_ = s.Add(Record{Name: "A", Username: "u", Password: "p", CreatedAt: 1, UpdatedAt: 1})

	f1 := openTempFile(t)
	if err := s.Sync(f1); err != nil {
		t.Fatalf("Sync 1: %v", err)
	}
	data1 := readFile(t, f1)

	f2 := openTempFile(t)
	if err := s.Sync(f2); err != nil {
		t.Fatalf("Sync 2: %v", err)
	}
	data2 := readFile(t, f2)

	iv1 := data1[45:61]
	iv2 := data2[45:61]
	if string(iv1) == string(iv2) {
		t.Fatal("two successive syncs produced the same IV")
	}

	ct1 := data1[125:]
	ct2 := data2[125:]
	if string(ct1) == string(ct2) {
		t.Fatal("two successive syncs of unchanged records produced identical ciphertext")
	}
}

func TestUniquenessOfNamesAfterAdd(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()

	_ = s.Add(Record{Name: "YouTube", Username: "u1", Password: "p1", CreatedAt: 1, UpdatedAt: 1})
	_ = s.Add(Record{Name: "Gmail", Username: "u2", Password: "p2", CreatedAt: 2, UpdatedAt: 2})

	seen := map[string]bool{}
	for _, r := range s.List() {
		key := caseFold.String(r.Name)
		if seen[key] {
			t.Fatalf("duplicate case-insensitive name in list: %q", r.Name)
		}
		seen[key] = true
	}
}

func TestCaseInsensitiveLookup(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	_ = s.Add(Record{Name: "YouTube", Username: "u", Password: "p", CreatedAt: 1, UpdatedAt: 1})

	a, okA := s.Get("YouTube")
	b, okB := s.Get("youtube")
	c, okC := s.Get("YOUTUBE")
	if !okA || !okB || !okC {
		t.Fatal("expected all case variants to resolve")
	}
	if a != b || b != c {
		t.Fatalf("case variants returned different records: %+v %+v %+v", a, b, c)
	}
}

func TestRekeyPreservesRecords(t *testing.T) {
	s, _ := Create("hunter2")
	_ = s.Add(Record{Name: "YouTube", Username: "u", Password: "p", CreatedAt: 1, UpdatedAt: 1})
	_ = s.Add(Record{Name: "Gmail", Username: "u2", Password: "p2", CreatedAt: 2, UpdatedAt: 2})

	before := append([]Record(nil), s.List()...)

	if err := s.Rekey("newpassphrase"); err != nil {
		t.Fatalf("Rekey: %v", err)
	}

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)
	s.Close()

	reopened, err := Open("newpassphrase", data)
	if err != nil {
		t.Fatalf("Open after rekey: %v", err)
	}
	defer reopened.Close()

	after := reopened.List()
	if len(after) != len(before) {
		t.Fatalf("len(after) = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("record %d changed across rekey: got %+v, want %+v", i, after[i], before[i])
		}
	}

	// Old passphrase must no longer work.
	if _, err := Open("hunter2", data); !errors.Is(err, ErrCorruption) {
		t.Fatalf("Open with pre-rekey passphrase = %v, want ErrCorruption", err)
	}
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	_, err := Open("hunter2", data[:10])
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Open(truncated) = %v, want *IoError", err)
	}
}

func TestListOrderPreservedAcrossSync(t *testing.T) {
	s, _ := Create("hunter2")
	names := []string{"Charlie", "Alpha", "Bravo"}
	for i, n := range names {
		_ = s.Add(Record{Name: n, Username: "u", Password: "p", CreatedAt: int64(i), UpdatedAt: int64(i)})
	}

	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)
	s.Close()

	reopened, err := Open("hunter2", data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	got := reopened.List()
	if len(got) != len(names) {
		t.Fatalf("len = %d, want %d", len(got), len(names))
	}
	for i, n := range names {
		if got[i].Name != n {
			t.Fatalf("order not preserved: got[%d].Name = %q, want %q", i, got[i].Name, n)
		}
	}
}

func TestSyncTruncatesPriorContents(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()

	f := openTempFile(t)
	if _, err := f.Write([]byte("leftover garbage from a prior, larger vault")); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)

	if _, err := Open("hunter2", data); err != nil {
		t.Fatalf("Open after truncating sync: %v", err)
	}
}

func TestOpenRejectsUnsupportedVersion(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	f := openTempFile(t)
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data := readFile(t, f)
	data[3] = 1

	_, err := Open("hunter2", data)
	if !errors.Is(err, ErrWrongVersion) {
		t.Fatalf("Open() = %v, want ErrWrongVersion", err)
	}
}

func TestCloseZeroesKey(t *testing.T) {
	s, _ := Create("hunter2")
	keyBytes := s.key.Bytes()
	cp := append([]byte(nil), keyBytes...)
	s.Close()
	if s.key.Len() != 0 {
		t.Fatal("key not released")
	}
	for i, v := range keyBytes {
		if v != 0 {
			t.Fatalf("key byte %d not zeroed after Close", i)
		}
	}
	_ = cp
}

func TestOpenEmptyBytes(t *testing.T) {
	_, err := Open("hunter2", nil)
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Open(nil) = %v, want *IoError", err)
	}
}

func TestVaultFilePermissions(t *testing.T) {
	s, _ := Create("hunter2")
	defer s.Close()
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.bin")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if err := s.Sync(f); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("vault file mode = %o, want 600", perm)
	}
}
