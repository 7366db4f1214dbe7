// seed_tasks.go: standalone script that loads a JSON task list into a running Triage service.
//
// Usage:
//
//	go run scripts/seed_tasks.go -file tasks.json -api http://localhost:8700 -token $TRIAGE_ADMIN_TOKEN
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

type taskRequest struct {
	Title          string   `json:"title"`
	DueDate        *string  `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Importance     *int     `json:"importance,omitempty"`
}

func main() {
	filePath := flag.String("file", "tasks.json", "path to a JSON array of tasks")
	apiURL := flag.String("api", "http://localhost:8700", "Triage API base URL")
	token := flag.String("token", os.Getenv("TRIAGE_ADMIN_TOKEN"), "admin bearer token")
	dryRun := flag.Bool("dry-run", false, "print tasks without posting")
	flag.Parse()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read %s: %v", *filePath, err)
	}

	var tasks []taskRequest
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Fatalf("parse %s: %v", *filePath, err)
	}
	log.Printf("parsed %d tasks from %s", len(tasks), *filePath)

	if *dryRun {
		for i, t := range tasks {
			due := "none"
			if t.DueDate != nil {
				due = *t.DueDate
			}
			fmt.Printf("[%d] %s (due=%s)\n", i+1, t.Title, due)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, t := range tasks {
		if t.Title == "" {
			log.Printf("skip untitled task")
			skipped++
			continue
		}
		body, _ := json.Marshal(t)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/tasks", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", t.Title, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", t.Title, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", t.Title, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}
