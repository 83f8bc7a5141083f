// Load test for the attendance API: registers a batch of employees and
// fires concurrent check-in requests, including duplicates, so the
// one-record-per-day guarantee can be observed under load.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL     = "http://localhost:8055/api"
	contentType = "application/json"

	numEmployees       = 500
	checkInsPerAccount = 2 // the second one must be rejected
	concurrency        = 50
)

func main() {
	fmt.Printf("Starting load test: %d employees, %d check-ins each, concurrency %d\n",
		numEmployees, checkInsPerAccount, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var checkedIn, rejected, failed int64

	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()

			token, err := registerEmployee(n)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				return
			}

			for j := 0; j < checkInsPerAccount; j++ {
				switch status := checkIn(token); {
				case status == http.StatusOK:
					atomic.AddInt64(&checkedIn, 1)
				case status == http.StatusConflict:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(startTime)

	fmt.Printf("Done in %s: %d checked in, %d duplicate rejections, %d failures\n",
		elapsed, checkedIn, rejected, failed)
	if checkedIn != numEmployees-failed {
		fmt.Println("WARNING: check-in count does not match employee count; uniqueness may be broken")
	}
}

func registerEmployee(n int) (string, error) {
	payload := fmt.Sprintf(
		`{"name":"Load Tester %d","email":"load-%d@example.com","password":"hunter22","employeeId":"LT-%05d"}`,
		n, n, n)

	resp, err := http.Post(baseURL+"/auth/register", contentType, bytes.NewBufferString(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("register returned %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

func checkIn(token string) int {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/attendance/checkin", nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}
