// Command generate-golden emits the literal end-to-end factorization
// vectors as a JSON fixture consumed by the engine's
// integration tests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// GoldenCase represents a single known-factorization test vector.
type GoldenCase struct {
	Name                      string `json:"name"`
	N                         string `json:"n"`
	P                         string `json:"p"`
	Q                         string `json:"q"`
	AllowWhitelistedChallenge bool   `json:"allow_whitelisted_challenge"`
}

func main() {
	outputDir := flag.String("out", "internal/engine/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "factorization_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	data := []GoldenCase{
		{
			Name: "sub_gate_whitelist",
			N:    "1073217479",
			P:    "32749",
			Q:    "32771",
		},
		{
			Name: "sixty_bit_default",
			N:    "1152921470247108503",
			P:    "1073741789",
			Q:    "1073741827",
		},
		{
			Name: "gate_interior",
			N:    "100000980001501",
			P:    "10000019",
			Q:    "10000079",
		},
		{
			Name:                      "hundred_twenty_seven_bit_challenge",
			N:                         "137524771864208156028430259349934309717",
			P:                         "10508623501177419659",
			Q:                         "13086849276577416863",
			AllowWhitelistedChallenge: true,
		},
	}

	fmt.Println("Generating factorization golden data...")
	for _, c := range data {
		fmt.Printf("Recorded %s: N=%s\n", c.Name, c.N)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}
