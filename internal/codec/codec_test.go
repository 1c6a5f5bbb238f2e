package codec

import (
	"strings"
	"testing"

	"github.com/bianoble/confsync/internal/tree"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"settings.json", JSON},
		{"settings.jsonc", JSON},
		{"app.yaml", YAML},
		{"app.yml", YAML},
		{"Config.TOML", TOML},
	}
	for _, tc := range cases {
		got, err := Detect(tc.path)
		if err != nil {
			t.Errorf("Detect(%q): %v", tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Detect(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}

	if _, err := Detect("settings.conf"); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestDecodeJSONWithComments(t *testing.T) {
	data := []byte(`{
  // user-added note
  "permissions": {
    "allow": ["read", "write",],
  },
}`)
	n, err := Decode(JSON, data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := tree.Object{"permissions": tree.Object{
		"allow": tree.Array{tree.String("read"), tree.String("write")},
	}}
	if !tree.Equal(n, want) {
		t.Errorf("decoded %s, want %s", tree.Canonical(n), tree.Canonical(want))
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte("server:\n  host: example.com\n  port: 8080\nflags:\n  - a\n  - b\n")
	n, err := Decode(YAML, data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	obj := n.(tree.Object)
	if obj["server"].(tree.Object)["port"] != tree.Number(8080) {
		t.Errorf("port = %v", obj["server"].(tree.Object)["port"])
	}
	if len(obj["flags"].(tree.Array)) != 2 {
		t.Errorf("flags = %v", obj["flags"])
	}
}

func TestDecodeTOML(t *testing.T) {
	data := []byte("title = \"demo\"\n\n[server]\nhost = \"example.com\"\nport = 8080\n")
	n, err := Decode(TOML, data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	obj := n.(tree.Object)
	if obj["title"] != tree.String("demo") {
		t.Errorf("title = %v", obj["title"])
	}
	if obj["server"].(tree.Object)["port"] != tree.Number(8080) {
		t.Errorf("port = %v", obj["server"].(tree.Object)["port"])
	}
}

func TestDecodeEmptyInputIsEmptyObject(t *testing.T) {
	for _, f := range []Format{JSON, YAML, TOML} {
		n, err := Decode(f, []byte("  \n"))
		if err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if !tree.Equal(n, tree.Object{}) {
			t.Errorf("%s: got %s, want empty object", f, tree.Canonical(n))
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	orig := tree.Object{
		"name":  tree.String("svc"),
		"port":  tree.Number(8080),
		"ratio": tree.Number(0.5),
		"tags":  tree.Array{tree.String("a"), tree.String("b")},
		"sub":   tree.Object{"on": tree.Bool(true)},
	}
	for _, f := range []Format{JSON, YAML, TOML} {
		data, err := Encode(f, orig)
		if err != nil {
			t.Fatalf("%s encode: %v", f, err)
		}
		back, err := Decode(f, data)
		if err != nil {
			t.Fatalf("%s decode: %v\n%s", f, err, data)
		}
		if !tree.Equal(orig, back) {
			t.Errorf("%s round trip changed tree:\n got %s\nwant %s", f, tree.Canonical(back), tree.Canonical(orig))
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	n := tree.Object{"z": tree.Number(1), "a": tree.Number(2), "m": tree.Object{"y": tree.Bool(true), "b": tree.Null{}}}
	for _, f := range []Format{JSON, YAML} {
		first, err := Encode(f, n)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		for i := 0; i < 10; i++ {
			again, err := Encode(f, n)
			if err != nil {
				t.Fatalf("%s: %v", f, err)
			}
			if string(again) != string(first) {
				t.Fatalf("%s encoding varies between runs:\n%s\nvs\n%s", f, again, first)
			}
		}
	}
}

func TestEncodeYAMLSortsKeys(t *testing.T) {
	n := tree.Object{"zeta": tree.Number(1), "alpha": tree.Number(2)}
	data, err := Encode(YAML, n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := string(data)
	if strings.Index(out, "alpha") > strings.Index(out, "zeta") {
		t.Errorf("keys not sorted:\n%s", out)
	}
}

func TestEncodeYAMLQuotesAmbiguousStrings(t *testing.T) {
	n := tree.Object{"version": tree.String("1.0"), "flag": tree.String("true")}
	data, err := Encode(YAML, n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(YAML, data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.(tree.Object)["flag"] != tree.String("true") {
		t.Errorf("string \"true\" came back as %v", back.(tree.Object)["flag"])
	}
	if back.(tree.Object)["version"] != tree.String("1.0") {
		t.Errorf("string \"1.0\" came back as %v", back.(tree.Object)["version"])
	}
}

func TestEncodeTOMLRequiresObjectRoot(t *testing.T) {
	if _, err := Encode(TOML, tree.Array{tree.Number(1)}); err == nil {
		t.Error("expected error for non-object TOML root")
	}
}
