package routefile

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalando/routecond/handlers"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

const testContent = `
routes:
- id: foo
  condition: /foo
  handler: {name: inlineContent, args: [foo]}
- id: bar
  condition: /bar
  handler: {name: inlineContent, args: [bar]}
- id: baz
  condition: /baz
  handler: {name: inlineContent, args: [baz]}
`

const testUpdatedContent = `
routes:
- id: foo
  condition: /foo
  handler: {name: inlineContent, args: [foo]}
- id: baz
  condition: /baz
  handler: {name: inlineContent, args: [baz-new]}
`

const testInvalidContent = `routes: [`

func writeFile(t *testing.T, name, content string) {
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func ids(routes []*routing.RouteDef) []string {
	var ids []string
	for _, r := range routes {
		ids = append(ids, r.ID)
	}

	sort.Strings(ids)
	return ids
}

func TestWatchMissingFile(t *testing.T) {
	c := Watch(filepath.Join(t.TempDir(), "routes.yaml"))
	defer c.Close()

	_, err := c.LoadAll()
	assert.Error(t, err)
}

func TestWatchUpdates(t *testing.T) {
	name := filepath.Join(t.TempDir(), "routes.yaml")
	writeFile(t, name, testContent)

	c := Watch(name)
	defer c.Close()

	routes, err := c.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "baz", "foo"}, ids(routes))

	upsert, deleted, err := c.LoadUpdate()
	require.NoError(t, err)
	assert.Empty(t, upsert)
	assert.Empty(t, deleted)

	writeFile(t, name, testUpdatedContent)
	upsert, deleted, err = c.LoadUpdate()
	require.NoError(t, err)
	assert.Equal(t, []string{"baz"}, ids(upsert))
	assert.Equal(t, []string{"bar"}, deleted)

	writeFile(t, name, testInvalidContent)
	_, _, err = c.LoadUpdate()
	assert.Error(t, err)

	require.NoError(t, os.Remove(name))
	upsert, deleted, err = c.LoadUpdate()
	require.NoError(t, err)
	assert.Empty(t, upsert)
	sort.Strings(deleted)
	assert.Equal(t, []string{"baz", "foo"}, deleted)
}

func TestWatchWithRouting(t *testing.T) {
	name := filepath.Join(t.TempDir(), "routes.yaml")
	writeFile(t, name, testContent)

	c := Watch(name)
	defer c.Close()

	rt := routing.New(routing.Options{
		HandlerRegistry: handlers.NewRegistry(),
		DataClients:     []routing.DataClient{c},
		PollTimeout:     6 * time.Millisecond,
	})
	defer rt.Close()

	select {
	case <-rt.FirstLoad():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for the first load")
	}

	body := func(path string) string {
		r, args := rt.Route(request.New(request.Sources{Server: request.Values{
			"REQUEST_METHOD": "GET",
			"REQUEST_URI":    path,
		}}))
		if r == nil {
			return ""
		}

		rsp, err := r.Serve(request.New(request.Sources{}).WithParams(args))
		if err != nil {
			return ""
		}

		defer rsp.Body.Close()
		b, _ := io.ReadAll(rsp.Body)
		return string(b)
	}

	assert.Equal(t, "bar", body("/bar"))
	assert.Equal(t, "baz", body("/baz"))

	writeFile(t, name, testUpdatedContent)
	assert.Eventually(t, func() bool {
		return body("/bar") == "" && body("/baz") == "baz-new"
	}, time.Second, 6*time.Millisecond)
}
