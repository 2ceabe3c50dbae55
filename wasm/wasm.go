// Command wasmplug builds, via extism's go-pdk, a WebAssembly plug-in
// exporting this module's cl100k_base encoder as four host-callable
// functions. Adapted from the teacher's wasm/wasm.go (a bare GPT-2
// encoder) to this module's Encoder and msgpack-framed Tokens, following
// the same export shape: tokenize, tokenize_and_back, decode_array, decode.
package main

import (
	"fmt"

	"github.com/extism/go-pdk"
	msgpack "github.com/vmihailenco/msgpack/v5"

	"github.com/tiktoken-go/tiktoken"
)

var encoder *tiktoken.Encoder

func init() {
	enc, err := tiktoken.LoadEncoding(tiktoken.Cl100kBase, tiktoken.LoaderOptions{})
	if err != nil {
		panic(err)
	}
	encoder = enc
}

//go:wasmexport tokenize
func Tokenize() int32 {
	text := pdk.InputString()
	tokens, err := encoder.EncodeOrdinary(text)
	if err != nil {
		return 1
	}
	bytes, err := msgpack.Marshal(&tokens)
	if err != nil {
		return 1
	}
	pdk.Output(bytes)
	return 0
}

//go:wasmexport tokenize_and_back
func TokenizeAndBack() int32 {
	text := pdk.InputString()
	tokens, err := encoder.EncodeOrdinary(text)
	if err != nil {
		return 1
	}
	textAgain, err := encoder.Decode(tokens)
	if err != nil {
		return 1
	}
	pdk.OutputString(textAgain)
	return 0
}

//go:wasmexport decode_array
func DecodeArray() int32 {
	raw := pdk.Input()
	var tokens tiktoken.Tokens
	if err := msgpack.Unmarshal(raw, &tokens); err != nil {
		return 1
	}
	text, err := encoder.Decode(tokens)
	if err != nil {
		return 1
	}
	pdk.OutputString(text)
	return 0
}

//go:wasmexport decode
func Decode() int32 {
	raw := pdk.Input()
	tokens := tiktoken.TokensFromBin(raw)
	text, err := encoder.Decode(tokens)
	if err != nil {
		return 1
	}
	pdk.OutputString(text)
	return 0
}

// tokenizeAndBackFull is a local smoke check run by main below; the
// wasmexport entry points above can only be driven from a host runtime.
func tokenizeAndBackFull() (string, error) {
	text := "Hello, world! This is a test."
	tokens, err := encoder.EncodeOrdinary(text)
	if err != nil {
		return "", err
	}
	bytes, err := msgpack.Marshal(&tokens)
	if err != nil {
		return "", err
	}

	var roundTripped tiktoken.Tokens
	if err := msgpack.Unmarshal(bytes, &roundTripped); err != nil {
		return "", err
	}
	return encoder.Decode(roundTripped)
}

func main() {
	out, err := tokenizeAndBackFull()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(out)
}
