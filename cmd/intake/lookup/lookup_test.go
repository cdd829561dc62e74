package lookupcmder

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

type fakeResolver struct {
	codes     []string
	cities    []string
	codeErr   error
	cityErr   error
	cityReply models.CityLookupResponse
}

func (f *fakeResolver) CityByCode(_ context.Context, code string) (address.Result, error) {
	f.codes = append(f.codes, code)
	if f.codeErr != nil {
		return address.Result{}, f.codeErr
	}
	return address.Result{Place: postal.Place{Code: code, City: "Berlin", State: "Berlin"}}, nil
}

func (f *fakeResolver) CodesByCity(_ context.Context, city string) (models.CityLookupResponse, error) {
	f.cities = append(f.cities, city)
	if f.cityErr != nil {
		return models.CityLookupResponse{}, f.cityErr
	}
	return f.cityReply, nil
}

var _ = Describe("Lookup Command", func() {
	var (
		ctx      context.Context
		out      *bytes.Buffer
		resolver *fakeResolver
		cmder    *lookupCommander
	)

	BeforeEach(func() {
		ctx = context.Background()
		out = &bytes.Buffer{}
		resolver = &fakeResolver{}
		cmder = &lookupCommander{resolver: resolver}
	})

	It("resolves arguments with digits as postal codes", func() {
		Expect(cmder.run(ctx, out, " 10115 ")).To(Succeed())
		Expect(resolver.codes).To(Equal([]string{"10115"}))
		Expect(resolver.cities).To(BeEmpty())
		Expect(out.String()).To(Equal("10115 Berlin (Berlin)\n"))
	})

	It("prints validation problems as warnings", func() {
		resolver.codeErr = postal.ErrTooLong
		Expect(cmder.run(ctx, out, "101155")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("warning: postal code must not have more than 5 digits"))
	})

	It("fails for unknown postal codes", func() {
		resolver.codeErr = address.ErrNotFound
		Expect(cmder.run(ctx, out, "99999")).To(MatchError(ContainSubstring("city not found")))
	})

	It("keeps the manual entry error", func() {
		resolver.codeErr = address.ErrLookupFailed
		Expect(cmder.run(ctx, out, "99999")).To(MatchError(address.ErrLookupFailed))
	})

	It("lists every code of an ambiguous city", func() {
		resolver.cityReply = models.CityLookupResponse{
			City: "Neustadt",
			Results: []postal.Place{
				{Code: "67433", City: "Neustadt", State: "Rheinland-Pfalz"},
				{Code: "01844", City: "Neustadt", State: "Sachsen"},
			},
			Ambiguous: true,
		}

		Expect(cmder.run(ctx, out, "Neustadt")).To(Succeed())
		Expect(resolver.cities).To(Equal([]string{"Neustadt"}))
		Expect(out.String()).To(Equal("2 postal codes for Neustadt:\n" +
			"  67433 Neustadt (Rheinland-Pfalz)\n" +
			"  01844 Neustadt (Sachsen)\n"))
	})

	It("warns about short city names", func() {
		resolver.cityErr = address.ErrCityTooShort
		Expect(cmder.run(ctx, out, "Ul")).To(Succeed())
		Expect(out.String()).To(HavePrefix("warning: "))
	})

	It("fails for unknown cities", func() {
		resolver.cityErr = address.ErrNotFound
		Expect(cmder.run(ctx, out, "Atlantis")).To(MatchError("Atlantis: no postal code found"))
	})
})
