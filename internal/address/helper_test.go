package address_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// fakeRemote answers from a fixed table and counts calls per code.
type fakeRemote struct {
	mu     sync.Mutex
	places map[string]postal.Place
	calls  map[string]int
	err    error
	delay  time.Duration
}

func newFakeRemote(places ...postal.Place) *fakeRemote {
	r := &fakeRemote{places: map[string]postal.Place{}, calls: map[string]int{}}
	for _, p := range places {
		r.places[p.Code] = p
	}
	return r
}

func (r *fakeRemote) Lookup(ctx context.Context, code string) (postal.Place, bool, error) {
	r.mu.Lock()
	delay := r.delay
	r.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return postal.Place{}, false, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[code]++
	if r.err != nil {
		return postal.Place{}, false, r.err
	}
	p, ok := r.places[code]
	return p, ok, nil
}

func (r *fakeRemote) Calls(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[code]
}

func (r *fakeRemote) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

// codesOnly knows the codes of some cities but none of their places.
type codesOnly map[string][]string

func (codesOnly) LookupCode(context.Context, string) (postal.Place, bool, error) {
	return postal.Place{}, false, nil
}

func (g codesOnly) CodesForCity(_ context.Context, cityKey string) ([]string, error) {
	return g[cityKey], nil
}

var _ = Describe("Helper", func() {
	var (
		ctx    context.Context
		remote *fakeRemote
		cache  *address.MemoryCache
		helper *address.Helper
	)

	munich := postal.Place{Code: "80331", City: "München", State: "Bayern", Latitude: "48.1345", Longitude: "11.571"}

	BeforeEach(func() {
		ctx = context.Background()
		remote = newFakeRemote(munich,
			postal.Place{Code: "10115", City: "Berlin", State: "Berlin"},
			postal.Place{Code: "10178", City: "Berlin", State: "Berlin"},
		)
		cache = address.NewMemoryCache()
		helper = address.NewHelper(remote, postal.NewStaticGazetteer(), cache, nil)
	})

	Describe("CityByCode", func() {
		It("resolves a valid code through the remote service", func() {
			res, err := helper.CityByCode(ctx, "80331")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Place).To(Equal(munich))
			Expect(res.Source).To(Equal(address.SourceRemote))
		})

		It("serves repeated lookups from the cache", func() {
			_, err := helper.CityByCode(ctx, "80331")
			Expect(err).NotTo(HaveOccurred())

			res, err := helper.CityByCode(ctx, " 80331 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(address.SourceCache))
			Expect(res.City).To(Equal("München"))
			Expect(remote.Calls("80331")).To(Equal(1))
		})

		It("rejects malformed codes without a lookup", func() {
			for code, want := range map[string]error{
				"8033":   postal.ErrIncomplete,
				"803311": postal.ErrTooLong,
				"80a31":  postal.ErrNotNumeric,
			} {
				_, err := helper.CityByCode(ctx, code)
				Expect(err).To(MatchError(want))
			}
			Expect(remote.TotalCalls()).To(BeZero())
		})

		It("caches unknown codes negatively", func() {
			_, err := helper.CityByCode(ctx, "99999")
			Expect(err).To(MatchError(address.ErrNotFound))

			_, err = helper.CityByCode(ctx, "99999")
			Expect(err).To(MatchError(address.ErrNotFound))
			Expect(remote.Calls("99999")).To(Equal(1))
		})

		It("seeds the reverse cache with the resolved city", func() {
			_, err := helper.CityByCode(ctx, "80331")
			Expect(err).NotTo(HaveOccurred())

			places, ok, err := cache.GetPlaces(ctx, "münchen")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(places).To(Equal([]postal.Place{munich}))
		})

		It("does not overwrite an existing reverse entry", func() {
			Expect(cache.SetPlaces(ctx, "berlin", []postal.Place{{Code: "10961", City: "Berlin"}})).To(Succeed())

			_, err := helper.CityByCode(ctx, "10115")
			Expect(err).NotTo(HaveOccurred())

			places, _, _ := cache.GetPlaces(ctx, "berlin")
			Expect(places).To(HaveLen(1))
			Expect(places[0].Code).To(Equal("10961"))
		})

		Context("when the remote service fails", func() {
			BeforeEach(func() {
				remote.err = errors.New("connection refused")
			})

			It("falls back to the reference table", func() {
				res, err := helper.CityByCode(ctx, "88339")
				Expect(err).NotTo(HaveOccurred())
				Expect(res.City).To(Equal("Bad Waldsee"))
				Expect(res.Source).To(Equal(address.SourceTable))
			})

			It("does not cache fallback answers", func() {
				_, err := helper.CityByCode(ctx, "88339")
				Expect(err).NotTo(HaveOccurred())
				_, err = helper.CityByCode(ctx, "88339")
				Expect(err).NotTo(HaveOccurred())
				Expect(remote.Calls("88339")).To(Equal(2))
			})

			It("reports a failed lookup for codes missing from the table", func() {
				_, err := helper.CityByCode(ctx, "12345")
				Expect(err).To(MatchError(address.ErrLookupFailed))
			})
		})

		It("shares one remote call between concurrent lookups of a code", func() {
			remote.delay = 50 * time.Millisecond

			var wg sync.WaitGroup
			var failures atomic.Int32
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := helper.CityByCode(ctx, "80331"); err != nil {
						failures.Add(1)
					}
				}()
			}
			wg.Wait()

			Expect(failures.Load()).To(BeZero())
			Expect(remote.Calls("80331")).To(Equal(1))
		})

		It("keeps a shared lookup alive when the first caller cancels", func() {
			remote.delay = 100 * time.Millisecond

			leaderCtx, cancel := context.WithCancel(ctx)
			leaderErr := make(chan error, 1)
			go func() {
				_, err := helper.CityByCode(leaderCtx, "80331")
				leaderErr <- err
			}()
			time.Sleep(20 * time.Millisecond)

			type outcome struct {
				res address.Result
				err error
			}
			follower := make(chan outcome, 1)
			go func() {
				res, err := helper.CityByCode(context.Background(), "80331")
				follower <- outcome{res, err}
			}()
			time.Sleep(20 * time.Millisecond)
			cancel()

			Eventually(leaderErr).Should(Receive(MatchError(context.Canceled)))

			var got outcome
			Eventually(follower, time.Second).Should(Receive(&got))
			Expect(got.err).NotTo(HaveOccurred())
			Expect(got.res.Place).To(Equal(munich))
			Expect(got.res.Source).To(Equal(address.SourceRemote))
			Expect(remote.Calls("80331")).To(Equal(1))
		})
	})

	Describe("CityByCode without a remote service", func() {
		BeforeEach(func() {
			helper = address.NewHelper(nil, nil, cache, nil)
		})

		It("populates the city from the reference table", func() {
			res, err := helper.CityByCode(ctx, "10115")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.City).To(Equal("Berlin"))
			Expect(res.Source).To(Equal(address.SourceTable))

			res, err = helper.CityByCode(ctx, "10115")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(address.SourceCache))
		})

		It("reports unrecognized codes as not found", func() {
			_, err := helper.CityByCode(ctx, "12345")
			Expect(err).To(MatchError(address.ErrNotFound))
		})
	})

	Describe("CodesByCity", func() {
		It("performs no lookup for names under three characters", func() {
			_, err := helper.CodesByCity(ctx, "Kö")
			Expect(err).To(MatchError(address.ErrCityTooShort))

			_, err = helper.CodesByCity(ctx, "  ab  ")
			Expect(err).To(MatchError(address.ErrCityTooShort))
			Expect(remote.TotalCalls()).To(BeZero())
		})

		It("returns every resolvable code of a known city", func() {
			places, err := helper.CodesByCity(ctx, "Berlin")
			Expect(err).NotTo(HaveOccurred())
			Expect(places).To(HaveLen(2))
			Expect(places[0].Code).To(Equal("10115"))
			Expect(places[1].Code).To(Equal("10178"))
		})

		It("caches the result under the normalized name", func() {
			_, err := helper.CodesByCity(ctx, "Berlin")
			Expect(err).NotTo(HaveOccurred())
			calls := remote.TotalCalls()

			places, err := helper.CodesByCity(ctx, "  BERLIN ")
			Expect(err).NotTo(HaveOccurred())
			Expect(places).To(HaveLen(2))
			Expect(remote.TotalCalls()).To(Equal(calls))
		})

		It("answers from the reverse cache seeded by a forward lookup", func() {
			_, err := helper.CityByCode(ctx, "80331")
			Expect(err).NotTo(HaveOccurred())

			places, err := helper.CodesByCity(ctx, "München")
			Expect(err).NotTo(HaveOccurred())
			Expect(places).To(Equal([]postal.Place{munich}))
		})

		It("does not cache a city resolved during a remote outage", func() {
			remote.err = errors.New("connection refused")

			places, err := helper.CodesByCity(ctx, "Berlin")
			Expect(err).NotTo(HaveOccurred())
			Expect(places).To(HaveLen(1))
			Expect(places[0].Code).To(Equal("10115"))

			_, ok, err := cache.GetPlaces(ctx, "berlin")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			remote.err = nil

			places, err = helper.CodesByCity(ctx, "Berlin")
			Expect(err).NotTo(HaveOccurred())
			Expect(places).To(HaveLen(2))
			Expect(places[1].Code).To(Equal("10178"))
		})

		It("reports a failed lookup when an outage leaves no code resolved", func() {
			remote.err = errors.New("connection refused")
			helper = address.NewHelper(remote, codesOnly{"neustadt": {"67433", "01844"}}, cache, nil)

			_, err := helper.CodesByCity(ctx, "Neustadt")
			Expect(err).To(MatchError(address.ErrLookupFailed))

			_, ok, _ := cache.GetPlaces(ctx, "neustadt")
			Expect(ok).To(BeFalse())
		})

		It("reports unknown cities as not found", func() {
			_, err := helper.CodesByCity(ctx, "Ravensburg")
			Expect(err).To(MatchError(address.ErrNotFound))
		})

		It("reports a known city as not found when none of its codes resolve", func() {
			_, err := helper.CodesByCity(ctx, "Hamburg")
			Expect(err).To(MatchError(address.ErrNotFound))
		})
	})
})
