package search

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

type notes struct {
	mu  sync.Mutex
	all []Notification
}

func (n *notes) Notify(x Notification) {
	n.mu.Lock()
	n.all = append(n.all, x)
	n.mu.Unlock()
}

func (n *notes) list() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.all...)
}

type navs struct {
	mu   sync.Mutex
	urls []string
}

func (n *navs) Navigate(path string, params []Param) {
	n.mu.Lock()
	n.urls = append(n.urls, BuildURL(path, params))
	n.mu.Unlock()
}

// gatedDecoder blocks each decode until its file name is released.
type gatedDecoder struct {
	mu    sync.Mutex
	gates map[string]chan error
}

func newGatedDecoder() *gatedDecoder {
	return &gatedDecoder{gates: map[string]chan error{}}
}

func (g *gatedDecoder) gate(name string) chan error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[name]
	if !ok {
		ch = make(chan error, 1)
		g.gates[name] = ch
	}
	return ch
}

func (g *gatedDecoder) release(name string, err error) { g.gate(name) <- err }

func (g *gatedDecoder) Decode(ctx context.Context, p Payload) (string, error) {
	if err := <-g.gate(p.Name); err != nil {
		return "", err
	}
	return "preview:" + p.Name, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 12, color.NRGBA{R: 180, G: 20, B: 20, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestWidget(opts ...Option) (*Widget, *notes, *navs) {
	n := &notes{}
	nv := &navs{}
	return New(nv, n, opts...), n, nv
}

func TestSubmitTextSearchNavigates(t *testing.T) {
	w, n, nv := newTestWidget()

	require.NoError(t, w.SubmitTextSearch("toyota corolla"))
	require.Equal(t, []string{"/cars?search=toyota%20corolla"}, nv.urls)
	require.Empty(t, n.list())
	require.Equal(t, "toyota corolla", w.Snapshot().Query)
}

func TestSubmitTextSearchEncodesQuery(t *testing.T) {
	queries := []string{"bmw", "a&b=c", "c++ coupe", "  mazda 3  ", "müller/kombi?", "100%"}
	for _, q := range queries {
		w, n, nv := newTestWidget()
		require.NoError(t, w.SubmitTextSearch(q))
		require.Len(t, nv.urls, 1, q)
		require.Equal(t, "/cars?search="+EncodeComponent(strings.TrimSpace(q)), nv.urls[0])
		require.NotContains(t, nv.urls[0], "+")
		require.Empty(t, n.list())
	}
}

func TestSubmitTextSearchRejectsBlank(t *testing.T) {
	for _, q := range []string{"", " ", "\t\n", "   "} {
		w, n, nv := newTestWidget()
		err := w.SubmitTextSearch(q)
		require.ErrorIs(t, err, ErrEmptyQuery)
		require.Empty(t, nv.urls)
		require.Equal(t, []Notification{{Level: LevelError, Message: MsgEnterSearchTerm}}, n.list())
	}
}

func TestAcceptPNGBecomesReady(t *testing.T) {
	w, n, _ := newTestWidget()
	w.ToggleMode()

	st := w.AcceptFile(Candidate{Name: "car.png", Type: "image/png", Size: 1 << 20, Data: pngBytes(t)})
	require.Equal(t, StatusDecoding, st)
	w.Wait()

	snap := w.Snapshot()
	require.Equal(t, StatusReady, snap.Status)
	data, ok := snap.Preview.Data()
	require.True(t, ok)
	require.True(t, strings.HasPrefix(data, "data:image/png;base64,"))
	require.Equal(t, []Notification{{Level: LevelSuccess, Message: MsgUploaded}}, n.list())
}

func TestAcceptRejectsOversizedRegardlessOfType(t *testing.T) {
	for _, typ := range []string{"image/jpeg", "image/png", "image/gif", "application/pdf"} {
		w, n, _ := newTestWidget()
		st := w.AcceptFile(Candidate{Name: "big", Type: typ, Size: 6 << 20, Data: []byte("x")})
		require.Equal(t, StatusEmpty, st)
		require.Equal(t, []Notification{{Level: LevelError, Message: MsgTooLarge}}, n.list())
	}
}

func TestAcceptMeasuresPayloadWhenSizeUnderstated(t *testing.T) {
	w, n, _ := newTestWidget()
	st := w.AcceptFile(Candidate{Name: "x.png", Type: "image/png", Size: 10, Data: make([]byte, 6<<20)})
	require.Equal(t, StatusEmpty, st)
	require.Equal(t, []Notification{{Level: LevelError, Message: MsgTooLarge}}, n.list())
}

func TestAcceptSizeBoundary(t *testing.T) {
	dec := newGatedDecoder()
	w, n, _ := newTestWidget(WithDecoder(dec))

	require.Equal(t, StatusDecoding, w.AcceptFile(Candidate{Name: "edge.jpg", Type: "image/jpeg", Size: MaxFileSize, Data: []byte("x")}))
	require.Equal(t, StatusDecoding, w.AcceptFiles(Candidate{Name: "over.jpg", Type: "image/jpeg", Size: MaxFileSize + 1, Data: []byte("x")}))
	require.Equal(t, []Notification{{Level: LevelError, Message: MsgTooLarge}}, n.list())

	dec.release("edge.jpg", nil)
	w.Wait()
	require.Equal(t, StatusReady, w.Snapshot().Status)
}

func TestAcceptRejectsInvalidType(t *testing.T) {
	w, n, _ := newTestWidget()
	st := w.AcceptFile(Candidate{Name: "car.gif", Type: "image/gif", Size: 2 << 20, Data: []byte("GIF89a")})
	require.Equal(t, StatusEmpty, st)
	require.Equal(t, []Notification{{Level: LevelError, Message: MsgInvalidType}}, n.list())
}

func TestRejectionKeepsPreviousImage(t *testing.T) {
	w, n, _ := newTestWidget()
	w.AcceptFile(Candidate{Name: "car.png", Type: "image/png", Data: pngBytes(t)})
	w.Wait()
	before := w.Snapshot()
	require.Equal(t, StatusReady, before.Status)

	w.AcceptFile(Candidate{Name: "huge.jpg", Type: "image/jpeg", Size: 9 << 20})
	w.AcceptFile(Candidate{Name: "doc.pdf", Type: "application/pdf", Size: 10})
	require.Equal(t, before, w.Snapshot())

	got := n.list()
	require.Len(t, got, 3)
	require.Equal(t, MsgTooLarge, got[1].Message)
	require.Equal(t, MsgInvalidType, got[2].Message)
}

func TestAcceptSniffsMissingType(t *testing.T) {
	w, _, _ := newTestWidget()
	require.Equal(t, StatusDecoding, w.AcceptFile(Candidate{Name: "upload", Data: pngBytes(t)}))
	w.Wait()
	require.Equal(t, "image/png", w.Snapshot().MediaType)

	require.Equal(t, StatusDecoding, w.AcceptFile(Candidate{Name: "blob", Type: "application/octet-stream", Data: pngBytes(t)}))
	w.Wait()
	require.Equal(t, StatusReady, w.Snapshot().Status)

	w2, n2, _ := newTestWidget()
	require.Equal(t, StatusEmpty, w2.AcceptFile(Candidate{Name: "car.png", Data: []byte("plain text, not an image")}))
	require.Equal(t, MsgInvalidType, n2.list()[0].Message)
}

func TestAcceptFilesUsesFirstOnly(t *testing.T) {
	dec := newGatedDecoder()
	w, _, _ := newTestWidget(WithDecoder(dec))

	w.AcceptFiles(
		Candidate{Name: "first.png", Type: "image/png", Data: []byte("a")},
		Candidate{Name: "second.png", Type: "image/png", Data: []byte("b")},
	)
	dec.release("first.png", nil)
	w.Wait()
	require.Equal(t, "first.png", w.Snapshot().FileName)

	require.Equal(t, StatusReady, w.AcceptFiles())
}

func TestDecodeFailure(t *testing.T) {
	dec := newGatedDecoder()
	w, n, _ := newTestWidget(WithDecoder(dec))

	w.AcceptFile(Candidate{Name: "broken.jpg", Type: "image/jpeg", Data: []byte("x")})
	dec.release("broken.jpg", errors.New("truncated"))
	w.Wait()

	snap := w.Snapshot()
	require.Equal(t, StatusFailed, snap.Status)
	require.False(t, snap.Preview.Present())
	require.Equal(t, []Notification{{Level: LevelError, Message: MsgReadFailed}}, n.list())
}

func TestDefaultDecoderFailsOnGarbage(t *testing.T) {
	w, n, _ := newTestWidget()
	w.AcceptFile(Candidate{Name: "fake.png", Type: "image/png", Data: []byte("not really a png")})
	w.Wait()
	require.Equal(t, StatusFailed, w.Snapshot().Status)
	require.Equal(t, MsgReadFailed, n.list()[0].Message)
}

func TestStaleDecodeIsDiscarded(t *testing.T) {
	dec := newGatedDecoder()
	w, n, _ := newTestWidget(WithDecoder(dec))

	w.AcceptFile(Candidate{Name: "a.png", Type: "image/png", Data: []byte("a")})
	w.AcceptFile(Candidate{Name: "b.png", Type: "image/png", Data: []byte("b")})
	dec.release("b.png", nil)
	dec.release("a.png", nil)
	w.Wait()

	snap := w.Snapshot()
	require.Equal(t, StatusReady, snap.Status)
	require.Equal(t, "b.png", snap.FileName)
	data, _ := snap.Preview.Data()
	require.Equal(t, "preview:b.png", data)
	require.Equal(t, []Notification{{Level: LevelSuccess, Message: MsgUploaded}}, n.list())
}

func TestRemoveDuringDecodeIgnoresResult(t *testing.T) {
	dec := newGatedDecoder()
	w, n, _ := newTestWidget(WithDecoder(dec))

	w.AcceptFile(Candidate{Name: "a.png", Type: "image/png", Data: []byte("a")})
	require.NoError(t, w.RemoveImage())
	dec.release("a.png", nil)
	w.Wait()

	snap := w.Snapshot()
	require.Equal(t, StatusEmpty, snap.Status)
	require.False(t, snap.Preview.Present())
	require.Equal(t, []Notification{{Level: LevelInfo, Message: MsgRemoved}}, n.list())
}

func TestDecodeTimeout(t *testing.T) {
	dec := newGatedDecoder()
	w, n, _ := newTestWidget(WithDecoder(dec), WithDecodeTimeout(20*time.Millisecond))
	t.Cleanup(func() { dec.release("slow.png", nil) })

	w.AcceptFile(Candidate{Name: "slow.png", Type: "image/png", Data: []byte("a")})
	w.Wait()
	require.Equal(t, StatusFailed, w.Snapshot().Status)
	require.Equal(t, MsgReadFailed, n.list()[0].Message)
}

func TestRemoveImage(t *testing.T) {
	dec := newGatedDecoder()
	w, n, _ := newTestWidget(WithDecoder(dec))

	require.ErrorIs(t, w.RemoveImage(), ErrNothingToRemove)
	require.Empty(t, n.list())

	w.AcceptFile(Candidate{Name: "ok.png", Type: "image/png", Data: []byte("a")})
	dec.release("ok.png", nil)
	w.Wait()
	require.NoError(t, w.RemoveImage())
	snap := w.Snapshot()
	require.Equal(t, StatusEmpty, snap.Status)
	require.False(t, snap.Preview.Present())
	require.Zero(t, snap.Size)

	w.AcceptFile(Candidate{Name: "bad.png", Type: "image/png", Data: []byte("b")})
	dec.release("bad.png", errors.New("boom"))
	w.Wait()
	require.Equal(t, StatusFailed, w.Snapshot().Status)
	require.NoError(t, w.RemoveImage())
	require.Equal(t, StatusEmpty, w.Snapshot().Status)

	got := n.list()
	require.Equal(t, Notification{Level: LevelInfo, Message: MsgRemoved}, got[1])
	require.Equal(t, Notification{Level: LevelInfo, Message: MsgRemoved}, got[3])
}

func TestToggleKeepsQueryAndImage(t *testing.T) {
	w, _, _ := newTestWidget()
	w.SetQuery("audi")
	w.AcceptFile(Candidate{Name: "car.png", Type: "image/png", Data: pngBytes(t)})
	w.Wait()
	before := w.Snapshot()

	require.Equal(t, ModeImage, w.ToggleMode())
	require.Equal(t, ModeText, w.ToggleMode())

	after := w.Snapshot()
	require.Equal(t, before, after)
	require.Equal(t, ModeText, after.Mode)
}

func TestSubmitImageSearch(t *testing.T) {
	dec := newGatedDecoder()
	w, n, nv := newTestWidget(WithDecoder(dec))

	require.ErrorIs(t, w.SubmitImageSearch(), ErrNoImage)
	require.Equal(t, []Notification{{Level: LevelError, Message: MsgUploadFirst}}, n.list())

	w.AcceptFile(Candidate{Name: "car.png", Type: "image/png", Data: []byte("a")})
	require.ErrorIs(t, w.SubmitImageSearch(), ErrNoImage)

	dec.release("car.png", nil)
	w.Wait()
	require.ErrorIs(t, w.SubmitImageSearch(), ErrImageSearchUnimplemented)
	require.Len(t, n.list(), 3)
	require.Empty(t, nv.urls)
	require.Equal(t, StatusReady, w.Snapshot().Status)
}
