package cache_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/perfscore/internal/adapters/cache"
	"github.com/okian/perfscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func record(tasks int) model.Record {
	return model.Record{
		TasksCompleted:     tasks,
		TaskCompletionRate: 80,
		AttendanceRate:     95,
		TrainingHours:      5,
	}
}

func TestLRUMemo(t *testing.T) {
	Convey("Given a new LRU memo", t, func() {
		ctx := context.Background()

		Convey("When created with default options", func() {
			m := cache.NewLRU()

			Convey("Then it starts empty", func() {
				So(m, ShouldNotBeNil)
				So(m.Len(), ShouldEqual, 0)
				So(m.Stats(), ShouldResemble, cache.Stats{})
			})
		})

		Convey("When a score is stored", func() {
			m := cache.NewLRU(cache.WithMaxSize(8))
			m.Put(ctx, record(10), 87.456)

			Convey("Then the same record hits", func() {
				score, ok := m.Get(ctx, record(10))
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 87.456)
				So(m.Stats().Hits, ShouldEqual, 1)
			})

			Convey("And a different record misses", func() {
				_, ok := m.Get(ctx, record(11))
				So(ok, ShouldBeFalse)
				So(m.Stats().Misses, ShouldEqual, 1)
			})
		})

		Convey("When the memo is full", func() {
			m := cache.NewLRU(cache.WithMaxSize(2))
			m.Put(ctx, record(1), 1)
			m.Put(ctx, record(2), 2)
			_, _ = m.Get(ctx, record(1))
			m.Put(ctx, record(3), 3)

			Convey("Then the least recently used record is evicted", func() {
				So(m.Len(), ShouldEqual, 2)
				_, ok := m.Get(ctx, record(2))
				So(ok, ShouldBeFalse)
				_, ok = m.Get(ctx, record(1))
				So(ok, ShouldBeTrue)
				_, ok = m.Get(ctx, record(3))
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the memo is disabled", func() {
			m := cache.NewLRU(cache.WithMaxSize(0))
			m.Put(ctx, record(1), 1)

			Convey("Then nothing is stored and lookups miss", func() {
				_, ok := m.Get(ctx, record(1))
				So(ok, ShouldBeFalse)
				So(m.Len(), ShouldEqual, 0)
				So(m.Stats().Misses, ShouldEqual, 1)
			})
		})

		Convey("When used concurrently", func() {
			m := cache.NewLRU(cache.WithMaxSize(64))
			var wg sync.WaitGroup
			for i := 1; i <= 32; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					m.Put(ctx, record(i), float64(i))
					_, _ = m.Get(ctx, record(i))
				}(i)
			}
			wg.Wait()

			Convey("Then every record is present", func() {
				So(m.Len(), ShouldEqual, 32)
				So(m.Stats().Hits, ShouldEqual, 32)
			})
		})
	})
}
