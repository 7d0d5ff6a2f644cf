package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// SlotLockService serializes check-then-write sequences on a
// (doctor, date) slot. Two concurrent bookings for the same doctor and
// date would otherwise both observe a capacity count below the limit and
// both insert, breaking the daily capacity invariant. Callers hold the
// slot lock across the capacity read and the appointment write.
//
// Locks live in-process: the service assumes a single writer instance,
// with the database transaction providing the durability boundary.
type SlotLockService struct {
	log *logrus.Logger

	// Per-slot mutex registry
	slotMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSlotLockService creates a SlotLockService and starts the background
// mutex cleanup goroutine. Call Stop() during graceful shutdown.
func NewSlotLockService(log *logrus.Logger) *SlotLockService {
	svc := &SlotLockService{
		log:      log,
		stopChan: make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupLoop()

	return svc
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *SlotLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotLockService stopped")
	}
}

// Lock acquires the mutex for a (doctor, date) slot and returns the
// unlock function.
func (s *SlotLockService) Lock(doctorID uuid.UUID, date time.Time) func() {
	mt := s.getSlotMutex(slotKey(doctorID, date))
	mt.mu.Lock()
	return mt.mu.Unlock
}

func slotKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s", doctorID, date.Format("2006-01-02"))
}

func (s *SlotLockService) getSlotMutex(key string) *mutexWithTimestamp {
	now := time.Now().Unix()

	if existing, ok := s.slotMu.Load(key); ok {
		mt := existing.(*mutexWithTimestamp)
		mt.lastUsed.Store(now)
		return mt
	}

	mt := &mutexWithTimestamp{}
	mt.lastUsed.Store(now)

	actual, _ := s.slotMu.LoadOrStore(key, mt)
	loaded := actual.(*mutexWithTimestamp)
	loaded.lastUsed.Store(now)
	return loaded
}

// cleanupLoop drops mutexes that have not been touched within the stale
// threshold, keeping the registry from growing unbounded over many slots.
func (s *SlotLockService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

func (s *SlotLockService) cleanupStaleMutexes() {
	cutoff := time.Now().Add(-mutexStaleThreshold).Unix()
	removed := 0

	s.slotMu.Range(func(key, value interface{}) bool {
		mt := value.(*mutexWithTimestamp)
		if mt.lastUsed.Load() < cutoff && mt.mu.TryLock() {
			s.slotMu.Delete(key)
			mt.mu.Unlock()
			removed++
		}
		return true
	})

	if removed > 0 {
		s.log.Debugf("Cleaned up %d stale slot mutexes", removed)
	}
}
