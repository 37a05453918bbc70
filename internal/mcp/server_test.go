package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notemgr/notemgr/internal/notes"
)

func newTestServer() *Server {
	fsys := fstest.MapFS{
		"a.md":         {Data: []byte("# a\n")},
		"b/c.md":       {Data: []byte("# c\n")},
		"b/d.txt":      {Data: []byte("not a note\n")},
		"project-x.md": {Data: []byte("# x\n")},
		"project-y.md": {Data: []byte("# y\n")},
	}
	svc := notes.NewService(notes.Options{Root: "/vault", FS: fsys})
	return NewServer(svc, "/vault", "test")
}

func TestHandleList(t *testing.T) {
	s := newTestServer()

	_, out, err := s.handleList(context.Background(), nil, ListInput{})
	require.NoError(t, err)

	assert.Equal(t, "/vault", out.Root)
	assert.ElementsMatch(t, []string{"a.md", "b/c.md", "project-x.md", "project-y.md"}, out.Notes)
}

func TestHandleFind(t *testing.T) {
	s := newTestServer()

	_, out, err := s.handleFind(context.Background(), nil, FindInput{Pattern: "project"})
	require.NoError(t, err)
	assert.True(t, out.Ambiguous)
	assert.Equal(t, []string{"project-x.md", "project-y.md"}, out.Matches)

	_, out, err = s.handleFind(context.Background(), nil, FindInput{Pattern: "b/c"})
	require.NoError(t, err)
	assert.False(t, out.Ambiguous)
	assert.Equal(t, []string{"b/c.md"}, out.Matches)

	_, out, err = s.handleFind(context.Background(), nil, FindInput{Pattern: "xyz"})
	require.NoError(t, err)
	assert.Empty(t, out.Matches)
}

func TestHandleRead(t *testing.T) {
	s := newTestServer()

	_, out, err := s.handleRead(context.Background(), nil, ReadInput{Path: "b/c.md"})
	require.NoError(t, err)
	assert.Equal(t, "# c\n", out.Content)

	_, _, err = s.handleRead(context.Background(), nil, ReadInput{Path: "b/d.txt"})
	assert.ErrorIs(t, err, notes.ErrUnknownNote)

	_, _, err = s.handleRead(context.Background(), nil, ReadInput{})
	assert.Error(t, err)
}

func TestServer_OverInMemoryTransport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestServer()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"notes_list", "notes_find", "notes_read"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "notes_find",
		Arguments: map[string]any{"pattern": "project"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out FindOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Ambiguous)
	assert.Len(t, out.Matches, 2)
}
