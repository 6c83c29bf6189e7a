package interchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/router"
)

func card(id string, x float64, inputs, outputs []string) model.Card {
	c := model.Card{UUID: id, Type: model.CardAgent}
	c.UI.Name = id
	c.UI.X = x
	c.UI.Width, c.UI.Height = 300, 150
	for _, s := range inputs {
		c.Data.Sockets.Inputs = append(c.Data.Sockets.Inputs, model.Socket{ID: s, Name: s})
	}
	for _, s := range outputs {
		c.Data.Sockets.Outputs = append(c.Data.Sockets.Outputs, model.Socket{ID: s, Name: s, Value: "hi"})
	}
	return c
}

func sampleStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.New(router.DefaultLayout())
	a := card("a", 0, nil, []string{"a.out"})
	a.Data.Fields = map[string]any{"prompt": "hello", "temperature": 0.5}
	_, err := s.AddCard(a)
	require.NoError(t, err)
	_, err = s.AddCard(card("b", 600, []string{"b.in", "b.in2"}, nil))
	require.NoError(t, err)
	_, err = s.Connect(graph.Endpoint{CardID: "a", SocketID: "a.out"}, graph.Endpoint{CardID: "b", SocketID: "b.in2"})
	require.NoError(t, err)

	s.AddCanvas("second")
	_, err = s.AddCard(card("c", 0, []string{"c.in"}, nil))
	require.NoError(t, err)
	require.NoError(t, s.SwitchTo(0))
	return s
}

func TestRoundTrip(t *testing.T) {
	src := sampleStore(t)
	data, err := Export(src)
	require.NoError(t, err)

	dst := graph.New(router.DefaultLayout())
	rep, err := Import(dst, data, Options{})
	require.NoError(t, err)
	assert.True(t, rep.Clean())
	assert.Equal(t, 2, rep.Canvases)
	assert.Equal(t, 3, rep.Cards)
	assert.Equal(t, 1, rep.Connections)

	again, err := Export(dst)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	assert.Equal(t, 0, dst.ActiveIndex())
	assert.Empty(t, dst.Check())
	want := src.Connections()[0]
	got := dst.Connections()[0]
	assert.Equal(t, want.SourcePoint, got.SourcePoint)
	assert.Equal(t, want.TargetPoint, got.TargetPoint)
}

const dangling = `{
  "version": 1,
  "activeIndex": 0,
  "canvases": [{
    "id": "cv",
    "name": "imported",
    "cards": [
      {"uuid": "a", "type": "agent", "ui": {"width": 300, "height": 150},
       "data": {"sockets": {"inputs": [], "outputs": [{"id": "o", "type": "output"}]}}},
      {"uuid": "b", "type": "agent", "ui": {"width": 300, "height": 150},
       "data": {"sockets": {"inputs": [{"id": "i", "type": "input"}], "outputs": []}}},
      {"uuid": "flat", "type": "agent", "ui": {"width": 0, "height": 150},
       "data": {"sockets": {"inputs": [{"id": "fi"}], "outputs": []}}},
      {"uuid": "dup", "type": "agent", "ui": {"width": 300, "height": 150},
       "data": {"sockets": {"inputs": [{"id": "x"}, {"id": "x"}], "outputs": []}}}
    ],
    "connections": [
      {"id": "good", "sourceCardId": "a", "sourceSocketId": "o", "targetCardId": "b", "targetSocketId": "i"},
      {"id": "again", "sourceCardId": "a", "sourceSocketId": "o", "targetCardId": "b", "targetSocketId": "i"},
      {"id": "ghost", "sourceCardId": "a", "sourceSocketId": "o", "targetCardId": "nobody", "targetSocketId": "i"},
      {"id": "flat", "sourceCardId": "a", "sourceSocketId": "o", "targetCardId": "flat", "targetSocketId": "fi"},
      {"id": "backwards", "sourceCardId": "b", "sourceSocketId": "i", "targetCardId": "a", "targetSocketId": "o"},
      {"id": "", "sourceCardId": "", "sourceSocketId": "o", "targetCardId": "b", "targetSocketId": "i"}
    ]
  }]
}`

func TestImportDropsBadEntries(t *testing.T) {
	s := graph.New(router.DefaultLayout())
	rep, err := Import(s, []byte(dangling), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Cards)
	assert.Equal(t, 2, rep.DroppedCards)
	assert.Equal(t, 1, rep.Connections)
	assert.Equal(t, 5, rep.DroppedConnections)
	assert.Len(t, rep.Problems, 7)
	assert.False(t, rep.Clean())

	active := s.Active()
	assert.Equal(t, "cv", active.ID)
	require.Len(t, active.Connections, 1)
	assert.Equal(t, "good", active.Connections[0].ID)
	assert.Equal(t, model.ZDefault, active.Cards[0].UI.ZIndex)
	assert.Empty(t, s.Check())
}

func TestImportStrictPolicy(t *testing.T) {
	doc := `{"version":1,"activeIndex":0,"canvases":[{"cards":[
	  {"uuid":"a","type":"agent","ui":{"width":1,"height":1},"data":{"sockets": {"inputs":[],"outputs":[{"id":"o","value":1}]}}},
	  {"uuid":"b","type":"agent","ui":{"width":1,"height":1},"data":{"sockets": {"inputs":[{"id":"i","value":"text"}],"outputs":[]}}}],
	  "connections":[{"sourceCardId":"a","sourceSocketId":"o","targetCardId":"b","targetSocketId":"i"}]}]}`

	canvases, _, rep, err := Decode([]byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Connections)
	assert.NotEmpty(t, canvases[0].ID)
	assert.NotEmpty(t, canvases[0].Connections[0].ID)

	_, _, rep, err = Decode([]byte(doc), Options{Policy: graph.Policy{StrictTypes: true}})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Connections)
	assert.Equal(t, 1, rep.DroppedConnections)
}

const agentDoc = `{"version":1,"activeIndex":0,"canvases":[{"id":"cv","name":"flow","cards":[
  {"uuid":"a","type":"agent","ui":{"name":"writer","x":0,"y":0,"width":300,"height":150,"zIndex":1},
   "data":{"prompt":"summarise","temperature":0.2,
     "sockets":{"inputs":[],"outputs":[{"id":"o1","type":"output","name":"reply","value":"","index":0}]}}},
  {"uuid":"b","type":"output","ui":{"name":"sink","x":600,"y":0,"width":300,"height":150,"zIndex":1},
   "data":{"sockets":{"inputs":[{"id":"i1","type":"input","name":"text","value":null,"index":0}],"outputs":[]}}}],
  "connections":[{"id":"k","sourceCardId":"a","sourceSocketId":"o1","targetCardId":"b","targetSocketId":"i1"}]}]}`

func TestImportCardDataShape(t *testing.T) {
	s := graph.New(router.DefaultLayout())
	rep, err := Import(s, []byte(agentDoc), Options{})
	require.NoError(t, err)
	assert.True(t, rep.Clean(), rep.Problems)

	a, err := s.Card("a")
	require.NoError(t, err)
	require.Len(t, a.Data.Sockets.Outputs, 1)
	assert.Equal(t, "o1", a.Data.Sockets.Outputs[0].ID)
	assert.Equal(t, "summarise", a.Data.Fields["prompt"])
	assert.Equal(t, 0.2, a.Data.Fields["temperature"])
	assert.NotContains(t, a.Data.Fields, "sockets")
	require.Len(t, s.Connections(), 1)

	out, err := Export(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"prompt": "summarise"`)
	assert.Contains(t, string(out), `"sockets": {`)
	assert.NotContains(t, string(out), `"fields"`)
}

func TestImportDropsDuplicateConnectionIDs(t *testing.T) {
	doc := `{"version":1,"activeIndex":0,"canvases":[{"cards":[
	  {"uuid":"a","type":"agent","ui":{"width":1,"height":1},"data":{"sockets":{"inputs":[],"outputs":[{"id":"o"},{"id":"o2"}]}}},
	  {"uuid":"b","type":"agent","ui":{"width":1,"height":1},"data":{"sockets":{"inputs":[{"id":"i"}],"outputs":[]}}}],
	  "connections":[
	    {"id":"k","sourceCardId":"a","sourceSocketId":"o","targetCardId":"b","targetSocketId":"i"},
	    {"id":"k","sourceCardId":"a","sourceSocketId":"o2","targetCardId":"b","targetSocketId":"i"}]}]}`

	s := graph.New(router.DefaultLayout())
	rep, err := Import(s, []byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Connections)
	assert.Equal(t, 1, rep.DroppedConnections)
	assert.Contains(t, rep.Problems[0], "duplicate id")

	require.NoError(t, s.RemoveConnection("k"))
	assert.Empty(t, s.Connections())
}

func TestImportFormatErrorKeepsState(t *testing.T) {
	s := sampleStore(t)
	before, err := Export(s)
	require.NoError(t, err)

	for name, doc := range map[string]string{
		"not json":    `{"version":`,
		"no canvases": `{"version":1,"activeIndex":0,"canvases":[]}`,
		"future":      `{"version":99,"activeIndex":0,"canvases":[{"cards":[],"connections":[]}]}`,
		"bad version": `{"version":0,"activeIndex":0,"canvases":[{"cards":[],"connections":[]}]}`,
		"wrong shape": `{"version":1,"canvases":{"a":1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Import(s, []byte(doc), Options{})
			require.ErrorIs(t, err, ErrFormat)
			after, err := Export(s)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}
}

func TestImportActiveIndexOutOfRange(t *testing.T) {
	doc := `{"version":1,"activeIndex":5,"canvases":[{"name":"only","cards":[],"connections":[]}]}`
	s := graph.New(router.DefaultLayout())
	_, err := Import(s, []byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.ActiveIndex())
	assert.Equal(t, "only", s.Active().Name)
}

func TestExportDOT(t *testing.T) {
	s := sampleStore(t)
	out := ExportDOT(s.Active())

	assert.Contains(t, out, "digraph cardstudio {")
	assert.Contains(t, out, `"a" [label="{}|a (agent)|{<a.out> a.out}"];`)
	assert.Contains(t, out, `"b" [label="{<b.in> b.in|<b.in2> b.in2}|b (agent)|{}"];`)
	assert.Contains(t, out, `"a":"a.out" -> "b":"b.in2";`)
}

func TestEscapeRecord(t *testing.T) {
	assert.Equal(t, `\{x\|y\}`, escapeRecord("{x|y}"))
}

func TestExportSVG(t *testing.T) {
	s := sampleStore(t)
	out := ExportSVG(s.Active(), router.DefaultLayout())

	assert.Contains(t, out, `viewBox="-40 -40 980 230"`)
	assert.Contains(t, out, `<rect x="600" y="0" width="300" height="150"`)
	// a.out anchors at (300, 56), b.in2 at (600, 84)
	assert.Contains(t, out, `d="M 300 56 C 450 56, 450 84, 600 84"`)
	assert.Contains(t, out, `<circle cx="600" cy="84" r="5" class="input"/>`)
}
