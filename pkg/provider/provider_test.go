package provider

import (
	"os"
	"testing"

	"github.com/lcm-go/lcm/pkg/lcmerr"
)

func TestParseURLBasic(t *testing.T) {
	u, err := ParseURL("udpm://239.255.76.67:7667?ttl=1&sndbuf=65536")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if u.Scheme != "udpm" {
		t.Errorf("Scheme = %q, want udpm", u.Scheme)
	}
	if u.Target != "239.255.76.67:7667" {
		t.Errorf("Target = %q", u.Target)
	}
	if u.Args["ttl"] != "1" || u.Args["sndbuf"] != "65536" {
		t.Errorf("Args = %+v", u.Args)
	}
}

func TestParseURLCommaSeparatedArgs(t *testing.T) {
	u, err := ParseURL("udpm://239.255.76.67:7667?ttl=1,sndbuf=65536")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if u.Args["ttl"] != "1" || u.Args["sndbuf"] != "65536" {
		t.Errorf("Args = %+v", u.Args)
	}
}

func TestParseURLEmptyDefaultsToUdpm(t *testing.T) {
	os.Unsetenv("LCM_DEFAULT_URL")
	u, err := ParseURL("")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if u.Scheme != "udpm" {
		t.Errorf("Scheme = %q, want udpm", u.Scheme)
	}
}

func TestParseURLEmptyHonorsEnvDefault(t *testing.T) {
	os.Setenv("LCM_DEFAULT_URL", "memq://test")
	defer os.Unsetenv("LCM_DEFAULT_URL")

	u, err := ParseURL("")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if u.Scheme != "memq" || u.Target != "test" {
		t.Errorf("u = %+v, want memq://test", u)
	}
}

func TestParseURLMissingSchemeSeparator(t *testing.T) {
	_, err := ParseURL("not-a-url")
	if !lcmerr.Is(err, lcmerr.URL) {
		t.Fatalf("err = %v, want lcmerr.URL", err)
	}
}

func TestRegisterAndGet(t *testing.T) {
	Register("test-scheme", func(target string, args map[string]string, dispatch Dispatcher) (Provider, error) {
		return nil, nil
	})
	if _, ok := Get("test-scheme"); !ok {
		t.Fatal("expected test-scheme to be registered")
	}
	if _, ok := Get("unregistered-scheme"); ok {
		t.Fatal("expected unregistered-scheme to be absent")
	}
}
