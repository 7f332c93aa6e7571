package asset

import (
	"io/ioutil"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
}

func TestRelativeResources(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)

	res1, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()

	res2, err := NewResource(filepath.Base(thisFile), res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()
}

func TestMissingResource(t *testing.T) {
	_, err := NewResource("does-not-exist.blob", nil)
	if err == nil || !os.IsNotExist(err) {
		t.Fatalf("expected a not-exist error; got %v", err)
	}
}

func TestResourceFromStream(t *testing.T) {
	res := mockResource("hello")
	defer res.Close()

	data, err := ioutil.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected 'hello'; got %q", data)
	}
}

func mockResource(payload string) *Resource {
	u, _ := url.Parse("embedded")
	return &Resource{
		ReadCloser: ioutil.NopCloser(strings.NewReader(payload)),
		url:        u,
	}
}
