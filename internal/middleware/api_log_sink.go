package middleware

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"payflow/internal/models"
)

const apiLogWriteTimeout = 5 * time.Second

// APILogSink queues request logs for a fixed pool of writers.
// Enqueue never blocks; entries are dropped when the queue is full.
type APILogSink struct {
	writer  APILogWriter
	queue   chan *models.APILog
	workers int
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAPILogSink(writer APILogWriter, queueSize, workers int, logger *zap.Logger) *APILogSink {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &APILogSink{
		writer:  writer,
		queue:   make(chan *models.APILog, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the writer goroutines.
func (s *APILogSink) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.process()
	}
}

// Enqueue hands an entry to the writers. It reports false if the entry was
// dropped.
func (s *APILogSink) Enqueue(entry *models.APILog) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.queue <- entry:
		return true
	default:
		s.logger.Warn("API log queue full, dropping entry",
			zap.String("request_id", entry.RequestID),
			zap.String("path", entry.Path))
		return false
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (s *APILogSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *APILogSink) process() {
	defer s.wg.Done()
	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), apiLogWriteTimeout)
		if err := s.writer.Create(ctx, entry); err != nil {
			s.logger.Warn("Failed to store API log", zap.Error(err))
		}
		cancel()
	}
}
