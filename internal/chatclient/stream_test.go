package chatclient

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader entrega un trozo por Read, como un cuerpo HTTP con chunked encoding.
type chunkReader struct {
	chunks [][]byte
	err    error
	closed bool
}

func newChunkReader(chunks ...string) *chunkReader {
	r := &chunkReader{}
	for _, c := range chunks {
		r.chunks = append(r.chunks, []byte(c))
	}
	return r
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	return nil
}

func collect(s *Stream) []string {
	var out []string
	for s.Next() {
		out = append(out, s.Text())
	}
	return out
}

func TestStream_YieldsChunksInOrder(t *testing.T) {
	s := NewStream(newChunkReader("Hel", "lo ", "there!"))
	got := collect(s)
	if strings.Join(got, "|") != "Hel|lo |there!" {
		t.Fatalf("unexpected fragments %q", got)
	}
	if s.Err() != nil {
		t.Fatalf("expected no error, got %v", s.Err())
	}
	if s.Next() {
		t.Fatalf("stream must not restart after completion")
	}
}

func TestStream_CarriesSplitRunes(t *testing.T) {
	text := "café ñandú 👋"
	raw := []byte(text)
	// corta en cada byte para forzar runas partidas
	var chunks []string
	for _, b := range raw {
		chunks = append(chunks, string([]byte{b}))
	}
	got := collect(NewStream(newChunkReader(chunks...)))
	if strings.Join(got, "") != text {
		t.Fatalf("expected %q, got %q", text, strings.Join(got, ""))
	}
	for _, frag := range got {
		if strings.ContainsRune(frag, '\uFFFD') {
			t.Fatalf("unexpected replacement char in %q", frag)
		}
	}
}

func TestStream_TruncatedRuneAtEOF(t *testing.T) {
	got := collect(NewStream(newChunkReader("ok", string([]byte{0xE2, 0x82}))))
	if strings.Join(got, "") != "ok\uFFFD" {
		t.Fatalf("expected replacement for truncated rune, got %q", got)
	}
}

func TestStream_ReadError(t *testing.T) {
	r := newChunkReader("partial")
	r.err = errors.New("connection reset")
	s := NewStream(r)

	got := collect(s)
	if strings.Join(got, "") != "partial" {
		t.Fatalf("expected data before error, got %q", got)
	}
	if s.Err() == nil || s.Err().Error() != "connection reset" {
		t.Fatalf("expected read error, got %v", s.Err())
	}
}

func TestStream_Empty(t *testing.T) {
	s := NewStream(newChunkReader())
	if s.Next() {
		t.Fatalf("expected no fragments")
	}
	if s.Err() != nil {
		t.Fatalf("expected no error")
	}
}

func TestStream_Close(t *testing.T) {
	r := newChunkReader("a", "b")
	s := NewStream(r)
	_ = s.Close()
	if !r.closed {
		t.Fatalf("expected body closed")
	}
	if s.Next() {
		t.Fatalf("expected no fragments after close")
	}
}

func TestCompleteRunesLen(t *testing.T) {
	euro := []byte("€") // 3 bytes
	cases := []struct {
		in   []byte
		want int
	}{
		{[]byte("abc"), 3},
		{append([]byte("a"), euro[:1]...), 1},
		{append([]byte("a"), euro[:2]...), 1},
		{append([]byte("a"), euro...), 4},
		{[]byte{}, 0},
		{[]byte{0xFF}, 1},
	}
	for i, c := range cases {
		if got := completeRunesLen(c.in); got != c.want {
			t.Fatalf("case %d: expected %d, got %d", i, c.want, got)
		}
	}
}
