// Package main builds a C-shared library exporting a small cgo surface
// over this module's encoders: initTokenizer, tokenize, and decode,
// adapted from the teacher's own lib/library.go to this module's
// encoding-name-keyed Encoder and four-byte Rank (the teacher's Token was
// two bytes; o200k_base alone needs four).
package main

/*
#include "library.h"
*/
import "C"
import (
	"reflect"
	"time"
	"unsafe"

	"github.com/tiktoken-go/tiktoken"
)

var encoders map[string]*tiktoken.Encoder

func init() {
	encoders = make(map[string]*tiktoken.Encoder)
}

//export initTokenizer
// initTokenizer accepts an encoding name as a C string and, if it is not
// already loaded, downloads (or loads from cache) and constructs its
// Encoder.
func initTokenizer(encodingName *C.char) bool {
	name := C.GoString(encodingName)
	if _, ok := encoders[name]; ok {
		return true
	}
	enc, err := tiktoken.LoadEncoding(tiktoken.Encoding(name), tiktoken.LoaderOptions{})
	if err != nil {
		panic(err)
	}
	encoders[name] = enc
	return true
}

func getEncoder(encodingName *C.char) *tiktoken.Encoder {
	name := C.GoString(encodingName)
	enc, ok := encoders[name]
	if !ok {
		initTokenizer(encodingName)
		enc = encoders[name]
	}
	return enc
}

// createBuffer wraps C memory as a Go []byte without copying.
func createBuffer(buf unsafe.Pointer, size int) []byte {
	var res []byte
	hdr := (*reflect.SliceHeader)(unsafe.Pointer(&res))
	hdr.Data = uintptr(buf)
	hdr.Len = size
	hdr.Cap = size
	return res
}

func tokensToC(tokens tiktoken.Tokens) C.Tokens {
	bin := tokens.ToBin()
	arr := C.CBytes(bin)
	return C.Tokens{
		tokens: (*C.uint32_t)(arr),
		len:    C.size_t(len(tokens)),
	}
}

//export tokenizeBuffer
// tokenizeBuffer encodes sz bytes starting at buf as ordinary text (no
// special-token handling) under encodingName's encoding.
func tokenizeBuffer(encodingName *C.char, buf *C.char, sz C.size_t) C.Tokens {
	enc := getEncoder(encodingName)
	text := string(createBuffer(unsafe.Pointer(buf), int(sz)))
	tokens, err := enc.EncodeOrdinary(text)
	if err != nil {
		panic(err)
	}
	return tokensToC(tokens)
}

//export tokenize
// tokenize encodes a C string under encodingName's encoding, permitting no
// special tokens.
func tokenize(encodingName *C.char, str *C.char) C.Tokens {
	enc := getEncoder(encodingName)
	tokens, err := enc.Encode(C.GoString(str), tiktoken.NoSpecial())
	if err != nil {
		panic(err)
	}
	return tokensToC(tokens)
}

//export decode
// decode decodes a C.Tokens struct back into a malloc'ed C string.
func decode(encodingName *C.char, tokens *C.Tokens) *C.char {
	enc := getEncoder(encodingName)
	raw := C.GoBytes(unsafe.Pointer(tokens.tokens), C.int(tokens.len*4))
	goTokens := tiktoken.TokensFromBin(raw)
	decoded, err := enc.Decode(goTokens)
	if err != nil {
		panic(err)
	}
	return C.CString(decoded)
}

// testBuffer exercises the C-facing tokenizeBuffer path from Go, since the
// test package cannot link against a cgo-built main package.
func testBuffer(encodingName string, buf []byte) (time.Duration, uint64) {
	nameC := C.CString(encodingName)
	corpusC := (*C.char)(C.CBytes(buf))
	start := time.Now()
	tokens := tokenizeBuffer(nameC, corpusC, C.size_t(len(buf)))
	return time.Since(start), uint64(tokens.len)
}

// wrapInitTokenizer simulates a C call to initTokenizer from Go, so tests
// in this package don't need to construct a *C.char themselves.
func wrapInitTokenizer(encodingName string) bool {
	return initTokenizer(C.CString(encodingName))
}

func main() {}
