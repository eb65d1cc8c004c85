package chatclient

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

const streamBufferSize = 4096

// Stream es una secuencia finita y no reiniciable de fragmentos de texto leídos del cuerpo
// de la respuesta. Las runas UTF-8 cortadas entre lecturas se completan en el fragmento siguiente.
//
//	for s.Next() {
//	    use(s.Text())
//	}
//	if err := s.Err(); err != nil { ... }
type Stream struct {
	body    io.ReadCloser
	buf     []byte
	pending []byte
	text    string
	readErr error
	err     error
	done    bool
}

func NewStream(body io.ReadCloser) *Stream {
	return &Stream{body: body, buf: make([]byte, streamBufferSize)}
}

// Next avanza al siguiente fragmento no vacío. Devuelve false al terminar o ante error.
func (s *Stream) Next() bool {
	for !s.done {
		if s.readErr != nil {
			s.done = true
			if !errors.Is(s.readErr, io.EOF) {
				s.err = s.readErr
				return false
			}
			if len(s.pending) > 0 {
				s.text = strings.ToValidUTF8(string(s.pending), "\uFFFD")
				s.pending = nil
				return true
			}
			return false
		}

		n, err := s.body.Read(s.buf)
		s.readErr = err
		if n == 0 {
			continue
		}

		data := append(s.pending, s.buf[:n]...)
		cut := completeRunesLen(data)
		s.text = string(data[:cut])
		s.pending = append([]byte(nil), data[cut:]...)
		if s.text != "" {
			return true
		}
	}
	return false
}

// Text devuelve el fragmento actual.
func (s *Stream) Text() string {
	return s.text
}

// Err devuelve el error de lectura, si lo hubo. EOF no es error.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) Close() error {
	s.done = true
	return s.body.Close()
}

// completeRunesLen devuelve el largo del prefijo de p que no termina en una runa incompleta.
func completeRunesLen(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if utf8.FullRune(p[i:]) {
				return len(p)
			}
			return i
		}
	}
	return len(p)
}
