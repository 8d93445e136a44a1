package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

var (
	unaryResp = []byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":1,"totalTokenCount":5}}`)
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	generate := flag.Bool("generate", false, "Attack /v1/generate instead of /v1/models")
	flag.Parse()

	go startMockUpstream()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		"SERVER_ENV=production",
		"SETTINGS_DRIVER=memory",
		"GEMINI_API_KEY=bench-key",
		fmt.Sprintf("GEMINI_BASE_URL=http://localhost:%d", mockPort),
		"RATE_LIMIT_REQUESTS_PER_SECOND=100000",
		"RATE_LIMIT_BURST=100000",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/health", appPort))

	target := vegeta.Target{
		Method: "GET",
		URL:    fmt.Sprintf("http://localhost:%d/v1/models", appPort),
	}
	if *generate {
		body, _ := json.Marshal(map[string]interface{}{
			"contents": []map[string]interface{}{
				{"role": "user", "parts": []map[string]string{{"text": "benchmark"}}},
			},
		})
		target = vegeta.Target{
			Method: "POST",
			URL:    fmt.Sprintf("http://localhost:%d/v1/generate", appPort),
			Body:   body,
			Header: http.Header{"Content-Type": []string{"application/json"}},
		}
	}

	attacker := vegeta.NewAttacker()
	targeter := vegeta.NewStaticTargeter(target)
	pacer := vegeta.Rate{Freq: *rate, Per: time.Second}

	fmt.Printf("Attacking %s at %d rps for %s...\n", target.URL, *rate, *duration)

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, pacer, *duration, "modelhub") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Printf("\nRequests:  %d\n", metrics.Requests)
	fmt.Printf("Success:   %.2f%%\n", metrics.Success*100)
	fmt.Printf("Mean:      %s\n", metrics.Latencies.Mean)
	fmt.Printf("P95:       %s\n", metrics.Latencies.P95)
	fmt.Printf("P99:       %s\n", metrics.Latencies.P99)
	fmt.Printf("Max:       %s\n", metrics.Latencies.Max)
	if len(metrics.Errors) > 0 {
		fmt.Printf("Errors:    %v\n", metrics.Errors)
	}
}

// startMockUpstream stands in for the Gemini API so the benchmark never
// leaves localhost.
func startMockUpstream() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(unaryResp)
	})
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux))
}

func waitForApp(url string) {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Fatal("App did not become ready in time")
}
