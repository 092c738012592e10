package gcsfetch

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{uri: "gs://statements/2024/jan.pdf", wantBucket: "statements", wantObject: "2024/jan.pdf"},
		{uri: "gs://statements/jan.pdf", wantBucket: "statements", wantObject: "jan.pdf"},
		{uri: "gs://statements", wantErr: true},
		{uri: "gs://statements/", wantErr: true},
		{uri: "/local/jan.pdf", wantErr: true},
		{uri: "", wantErr: true},
	}

	for _, tt := range tests {
		bucket, object, err := ParseURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseURI(%q) expected error, got %q/%q", tt.uri, bucket, object)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURI(%q) failed: %v", tt.uri, err)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("ParseURI(%q) = %q/%q, want %q/%q", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://statements/2024/jan.pdf", "jan.pdf"},
		{"gs://statements/jan.pdf", "jan.pdf"},
		{"data/jan.pdf", "jan.pdf"},
		{"jan.pdf", "jan.pdf"},
	}
	for _, tt := range tests {
		if got := Filename(tt.uri); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestIsURI(t *testing.T) {
	if !IsURI("gs://bucket/object") {
		t.Error("gs:// source not recognised")
	}
	if IsURI("/local/path.pdf") {
		t.Error("local path misreported as a gs:// source")
	}
}
