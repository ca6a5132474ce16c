package storage

import (
	"net/url"
	"testing"
)

func TestRewriteHost(t *testing.T) {
	u, err := url.Parse("http://minio:9000/mom-generator/documents/moms/MOM_001/MOM_001_Apollo_2024-05-01.pdf?X-Amz-Signature=abc")
	if err != nil {
		t.Fatal(err)
	}

	if got := rewriteHost(u, ""); got != u.String() {
		t.Errorf("without public URL got %q", got)
	}
	want := "https://files.example.com/mom-generator/documents/moms/MOM_001/MOM_001_Apollo_2024-05-01.pdf?X-Amz-Signature=abc"
	if got := rewriteHost(u, "https://files.example.com"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
