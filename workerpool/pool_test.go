package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/beewatch/hivetune/errors"
	"github.com/stretchr/testify/require"
)

func Test_RunJobs(t *testing.T) {
	pool := New(5)

	var jobs []Job
	var completed int32
	for i := 0; i < 15; i++ {
		jobs = append(jobs, func() error {
			time.Sleep(50 * time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	pool.Add(jobs)
	require.NoError(t, pool.Wait())
	require.EqualValues(t, len(jobs), completed, "expected all jobs to be completed")
}

func Test_StopWait(t *testing.T) {
	pool := New(5)

	var jobs []Job
	for i := 0; i < 15; i++ {
		jobs = append(jobs, func() error {
			time.Sleep(100 * time.Millisecond)
			return nil
		})
	}

	pool.Add(jobs)
	<-time.After(100 * time.Millisecond)
	pool.Stop()
	pool.Wait()
}

func Test_WaitReturnsJobError(t *testing.T) {
	pool := New(2)

	var jobs []Job
	for i := 0; i < 5; i++ {
		jobs = append(jobs, func() error {
			return nil
		})
	}
	jobs = append(jobs, func() error {
		return errors.Errorf("broken job")
	})

	pool.AddBlocking(jobs)
	require.EqualError(t, pool.Wait(), "broken job")
}
