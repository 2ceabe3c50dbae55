// Command js builds, via gopherjs, an in-browser cl100k_base tokenizer:
// a tiny exports object wrapping Encoder.EncodeOrdinary and Encoder.Decode,
// adapted from the teacher's own js/js.go (GPT2Encoder-only) to this
// module's encoding registry and Rank width.
package main

//go:generate gopherjs build --minify

import (
	"log"

	"github.com/gopherjs/gopherjs/js"

	"github.com/tiktoken-go/tiktoken"
)

var encoder *tiktoken.Encoder

func Tokenize(text string) tiktoken.Tokens {
	tokens, err := encoder.EncodeOrdinary(text)
	if err != nil {
		log.Printf("tiktoken: tokenize failed: %v", err)
		return nil
	}
	return tokens
}

func Decode(bin []byte) string {
	tokens := tiktoken.TokensFromBin(bin)
	text, err := encoder.Decode(tokens)
	if err != nil {
		log.Printf("tiktoken: decode failed: %v", err)
		return ""
	}
	return text
}

func init() {
	enc, err := tiktoken.LoadEncoding(tiktoken.Cl100kBase, tiktoken.LoaderOptions{})
	if err != nil {
		log.Fatalf("tiktoken: loading cl100k_base: %v", err)
	}
	encoder = enc

	js.Module.Get("exports").Set("decode", Decode)
	js.Module.Get("exports").Set("tokenize", Tokenize)
	log.Printf("cl100k_base BPE encoder loaded")
}

func main() {}
