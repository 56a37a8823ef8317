package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/smarrtifai/github-optimizer/internal/adapters/mq/queue"
	"github.com/smarrtifai/github-optimizer/internal/adapters/mq/worker"
	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	logging "github.com/smarrtifai/github-optimizer/pkg/logger"
)

type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockWriter struct {
	mu       sync.Mutex
	profiles map[string]int
	insights map[string]string
	calls    []string
	failFor  map[string]error
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		profiles: make(map[string]int),
		insights: make(map[string]string),
		failFor:  make(map[string]error),
	}
}

func (m *mockWriter) UpsertProfile(_ context.Context, s *model.ProfileSummary, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor[s.Profile.Login]; err != nil {
		return err
	}
	m.profiles[s.Profile.Login] = s.Stats.Rating
	m.calls = append(m.calls, "profile:"+s.Profile.Login)
	return nil
}

func (m *mockWriter) SaveInsight(_ context.Context, login, text string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[login]; !ok {
		return errors.New("no profile")
	}
	m.insights[login] = text
	m.calls = append(m.calls, "insight:"+login)
	return nil
}

func (m *mockWriter) rating(login string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.profiles[login]
	return r, ok
}

func (m *mockWriter) insight(login string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insights[login]
}

func (m *mockWriter) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func summary(login string, rating int) *model.ProfileSummary {
	return &model.ProfileSummary{Profile: model.Profile{Login: login}, Stats: model.Stats{Rating: rating}}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		w := newMockWriter()
		wk := worker.NewInMemoryWorker(q, w, worker.WithName("test-worker"), worker.WithWriteTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go wk.Run(ctx)

		convey.Convey("When a profile job arrives", func() {
			q.jobs <- queue.Job{Kind: model.PersistProfile, Login: "octocat", Summary: summary("octocat", 54), At: time.Now()}
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the profile is upserted", func() {
				r, ok := w.rating("octocat")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(r, convey.ShouldEqual, 54)
			})
		})

		convey.Convey("When an insight job carries its summary", func() {
			q.jobs <- queue.Job{Kind: model.PersistInsight, Login: "hubot", Summary: summary("hubot", 30), InsightText: "report", At: time.Now()}
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the profile is written before the insight", func() {
				convey.So(w.insight("hubot"), convey.ShouldEqual, "report")
				convey.So(w.callLog(), convey.ShouldResemble, []string{"profile:hubot", "insight:hubot"})
			})
		})

		convey.Convey("When a write fails", func() {
			w.mu.Lock()
			w.failFor["broken"] = errors.New("store down")
			w.mu.Unlock()
			q.jobs <- queue.Job{Kind: model.PersistProfile, Login: "broken", Summary: summary("broken", 1), At: time.Now()}
			q.jobs <- queue.Job{Kind: model.PersistProfile, Login: "after", Summary: summary("after", 2), At: time.Now()}
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the worker keeps going", func() {
				_, ok := w.rating("broken")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = w.rating("after")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then it stops and a second shutdown is harmless", func() {
				convey.So(wk.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(wk.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPoolDrainsOnShutdown(t *testing.T) {
	q := queue.NewInMemoryQueue(queue.WithCapacity(100))
	w := newMockWriter()
	pool := worker.NewPool(3, q, w)
	if pool.Size() != 3 {
		t.Fatalf("expected 3 workers, got %d", pool.Size())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logins := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, login := range logins {
		if err := q.Enqueue(ctx, queue.Job{Kind: model.PersistProfile, Login: login, Summary: summary(login, i), At: time.Now()}); err != nil {
			t.Fatalf("enqueue %s: %v", login, err)
		}
	}
	pool.Start(ctx)

	sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer scancel()
	if err := pool.Shutdown(sctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	for i, login := range logins {
		r, ok := w.rating(login)
		if !ok || r != i {
			t.Errorf("profile %s: got (%d, %v), want (%d, true)", login, r, ok, i)
		}
	}
	if !q.IsClosed() {
		t.Error("expected the queue to be closed by shutdown")
	}
}

func TestPoolDefaultSize(t *testing.T) {
	pool := worker.NewPool(0, newMockQueue(), newMockWriter())
	if pool.Size() < 1 {
		t.Fatalf("expected a default worker count, got %d", pool.Size())
	}
}
