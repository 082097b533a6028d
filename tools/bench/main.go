package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// -------------------- 压测统计 --------------------

type APITestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	MaxLatency         time.Duration
	MinLatency         time.Duration
	totalLatency       time.Duration
	mu                 sync.Mutex
}

func (s *APITestStats) Add(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
	if !success {
		s.FailedRequests++
		return
	}
	s.SuccessfulRequests++
	s.totalLatency += latency
	if s.MaxLatency == 0 || latency > s.MaxLatency {
		s.MaxLatency = latency
	}
	if s.MinLatency == 0 || latency < s.MinLatency {
		s.MinLatency = latency
	}
}

func (s *APITestStats) AverageLatency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SuccessfulRequests == 0 {
		return 0
	}
	return s.totalLatency / time.Duration(s.SuccessfulRequests)
}

// -------------------- HTTP 请求 --------------------

var client = &http.Client{Timeout: 8 * time.Second}

func send(method, url string, body interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func hit(method, url string, body interface{}, want int, stats *APITestStats) {
	start := time.Now()
	code, err := send(method, url, body)
	stats.Add(err == nil && code == want, time.Since(start))
}

// -------------------- 压测场景 --------------------

// 每个协程使用独立的商品ID，避免联合主键 (product_id, related_product_id) 冲突
func worker(base string, id, pairs int, stats *APITestStats) {
	productID := int64(100000 + id)
	for j := 0; j < pairs; j++ {
		relatedID := int64(j + 1)
		pairURL := fmt.Sprintf("%s/api/recommendations/%d/%d", base, productID, relatedID)

		hit("POST", base+"/api/recommendations", map[string]interface{}{
			"product-id":         productID,
			"related-product-id": relatedID,
			"type-id":            int64(j%3 + 1),
			"status":             true,
		}, http.StatusCreated, stats)
		hit("GET", pairURL, nil, http.StatusOK, stats)
		hit("PUT", pairURL+"/toggle", nil, http.StatusOK, stats)
		hit("GET", fmt.Sprintf("%s/api/recommendations?product-id=%d", base, productID), nil, http.StatusOK, stats)
	}
	// 清理本协程写入的数据
	hit("DELETE", fmt.Sprintf("%s/api/recommendations/%d/all", base, productID), nil, http.StatusNoContent, stats)
}

func runHTTPBench(base string, concurrency, pairs int) {
	fmt.Println("\n=== 推荐服务并发压测开始 ===")
	fmt.Printf("目标: %s 并发: %d 每协程商品对: %d\n", base, concurrency, pairs)

	stats := &APITestStats{}
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(base, id, pairs, stats)
		}(i)
	}
	wg.Wait()

	took := time.Since(start)
	fmt.Println("\n=== 压测结果 ===")
	fmt.Printf("耗时: %v\n", took)
	fmt.Printf("总请求: %d 成功: %d 失败: %d\n", stats.TotalRequests, stats.SuccessfulRequests, stats.FailedRequests)
	fmt.Printf("延迟 平均: %v 最大: %v 最小: %v\n", stats.AverageLatency(), stats.MaxLatency, stats.MinLatency)
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(stats.SuccessfulRequests)/took.Seconds())
	}
	if stats.TotalRequests > 0 {
		fmt.Printf("成功率: %.2f%%\n", float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	}
}

// -------------------- 入口 --------------------

func main() {
	// 解析命令行参数: [并发数] [每协程商品对数] [服务地址]
	concurrency := 5
	pairs := 10
	baseURL := "http://localhost:8080"

	if len(os.Args) > 1 {
		if val, err := strconv.Atoi(os.Args[1]); err == nil {
			concurrency = val
		}
	}
	if len(os.Args) > 2 {
		if val, err := strconv.Atoi(os.Args[2]); err == nil {
			pairs = val
		}
	}
	if len(os.Args) > 3 {
		baseURL = os.Args[3]
	}

	fmt.Println("=== 商品推荐服务并发测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	// 先确认服务可用
	code, err := send("GET", baseURL+"/healthcheck", nil)
	if err != nil || code != http.StatusOK {
		fmt.Printf("服务不可用: %s (code=%d err=%v)\n", baseURL, code, err)
		os.Exit(1)
	}

	runHTTPBench(baseURL, concurrency, pairs)

	fmt.Println("\n=== 测试完成 ===")
}
