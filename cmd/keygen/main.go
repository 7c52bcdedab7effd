// Package main provides a CLI tool for generating issuer signing keys for
// local development. Keys generated here are for dev/demo use and must not
// be used in production.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

type keyOutput struct {
	PrivateKey string            `json:"privateKey"`
	Address    string            `json:"address"`
	Usage      map[string]string `json:"usage"`
}

func main() {
	jsonOut := flag.Bool("json", false, "emit JSON instead of plain text")
	flag.Parse()

	key, err := crypto.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		os.Exit(1)
	}

	privHex := hex.EncodeToString(crypto.FromECDSA(key))
	addr := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())

	if *jsonOut {
		out := keyOutput{
			PrivateKey: privHex,
			Address:    addr,
			Usage: map[string]string{
				"env": "export ISSUER_PRIVATE_KEY=" + privHex,
			},
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Printf("private key: %s\n", privHex)
	fmt.Printf("address:     %s\n", addr)
	fmt.Printf("\nexport ISSUER_PRIVATE_KEY=%s\n", privHex)
}
