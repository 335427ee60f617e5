package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Walks one session through the secretary API against a running server:
// greeting, decisions, a chat turn, an email and the audit archive.

func baseURL() string {
	if v := os.Getenv("CORA_API_URL"); v != "" {
		return v
	}
	return "http://localhost:3000/api"
}

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, url, token string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL()+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded, nil
}

func step(title, method, url, token string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, decoded, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(decoded["data"])
	return decoded
}

func main() {
	color.Cyan("Starting CORA Leaf API smoke run against %s", baseURL())

	created := step("1. Create session", "POST", "/session/v1", "", map[string]string{"customer": "Amazon"})
	data, _ := created["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		color.Red("No session token returned")
		os.Exit(1)
	}

	step("2. Amazon 15% (expect Approved)", "POST", "/governance/v1/decisions", token,
		map[string]interface{}{"customer": "Amazon", "discount_percent": 15})
	step("3. Tesla 5% (expect Rejected)", "POST", "/governance/v1/decisions", token,
		map[string]interface{}{"customer": "Tesla", "discount_percent": 5})
	step("4. Resolved limit for Google", "GET", "/governance/v1/limits/Google", token, nil)
	step("5. Chat turn", "POST", "/chat/v1", token,
		map[string]string{"chat": "Generate a negotiation brief for Amazon"})
	step("6. Email dispatch", "POST", "/dispatch/v1/emails", token,
		map[string]string{"customer": "Amazon", "subject": "Renewal proposal"})
	step("7. Session state", "GET", "/session/v1", token, nil)
	step("8. Audit archive (503 without a database)", "GET", "/audit/v1/decisions?limit=5", token, nil)

	color.Cyan("\nDone")
}
