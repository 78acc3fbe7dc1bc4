package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"
	"gift_catalog/internal/tags"
	"gift_catalog/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *store.Store, *testutil.Clock) {
	t.Helper()
	s := testutil.NewStore(t)
	clock := testutil.NewClock()
	return NewService(s, clock.Now, testutil.Logger()), s, clock
}

func spaInput(tagRefs ...tags.Ref) CreateInput {
	return CreateInput{
		Name:        "Spa day",
		Description: "Full day in the spa",
		Price:       decimal.RequireFromString("120.50"),
		Duration:    90,
		Tags:        tagRefs,
	}
}

func TestCreateCertificate_ResolvesAndLinksTags(t *testing.T) {
	svc, s, clock := newTestService(t)
	ctx := context.Background()
	existing, err := s.CreateTag(ctx, "relax")
	require.NoError(t, err)

	cert, err := svc.CreateCertificate(ctx, spaInput(
		tags.Ref{ID: existing.ID, Name: "relax"},
		tags.Ref{Name: "water"},
		tags.Ref{Name: "relax"},
	))
	require.NoError(t, err)

	assert.True(t, cert.Active)
	assert.Equal(t, clock.Now(), cert.CreatedAt.UTC())
	assert.Len(t, cert.Tags, 2)
	assert.Contains(t, cert.TagIDs(), existing.ID)

	list, err := svc.ListTags(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Meta.Total)
}

func TestCreateCertificate_DuplicateFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCertificate(ctx, spaInput())
	require.NoError(t, err)

	_, err = svc.CreateCertificate(ctx, spaInput())
	assert.Equal(t, errs.KindResourceAlreadyExists, errs.KindOf(err))
}

func TestCreateCertificate_TagConflictRollsBack(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()
	_, err := s.CreateTag(ctx, "Y")
	require.NoError(t, err)

	_, err = svc.CreateCertificate(ctx, spaInput(tags.Ref{Name: "brand_new"}, tags.Ref{ID: 1, Name: "X"}))
	assert.Equal(t, errs.KindResourceAlreadyExists, errs.KindOf(err))

	_, err = s.FindTagByName(ctx, "brand_new")
	assert.ErrorIs(t, err, store.ErrNotFound)
	all, err := svc.ListAllCertificates(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, all.Items)
}

func TestCreateCertificate_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.Name = "" }},
		{"zero price", func(in *CreateInput) { in.Price = decimal.Zero }},
		{"negative price", func(in *CreateInput) { in.Price = decimal.NewFromInt(-5) }},
		{"sub-cent price", func(in *CreateInput) { in.Price = decimal.RequireFromString("1.005") }},
		{"zero duration", func(in *CreateInput) { in.Duration = 0 }},
		{"bad tag", func(in *CreateInput) { in.Tags = []tags.Ref{{Name: "no spaces allowed"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := spaInput()
			tt.mutate(&in)
			_, err := svc.CreateCertificate(context.Background(), in)
			assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))
		})
	}
}

func TestUpdateCertificateFields_AppliesOnlyPresentFields(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	cert, err := svc.CreateCertificate(ctx, spaInput(tags.Ref{Name: "relax"}))
	require.NoError(t, err)
	clock.Advance(time.Hour)

	newPrice := decimal.RequireFromString("99.99")
	updated, err := svc.UpdateCertificateFields(ctx, cert.ID, Patch{Price: &newPrice})
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, cert.Name, updated.Name)
	assert.Equal(t, cert.Description, updated.Description)
	assert.Equal(t, cert.Duration, updated.Duration)
	assert.Equal(t, cert.TagIDs(), updated.TagIDs())
	assert.Equal(t, clock.Now(), updated.UpdatedAt.UTC())
	assert.Equal(t, cert.CreatedAt, updated.CreatedAt)
}

func TestUpdateCertificateFields_CurrentValues(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	cert, err := svc.CreateCertificate(ctx, spaInput(tags.Ref{Name: "relax"}))
	require.NoError(t, err)
	clock.Advance(time.Minute)

	name := cert.Name
	active := true
	duration := cert.Duration
	refs := []tags.Ref{{Name: "relax"}}
	updated, err := svc.UpdateCertificateFields(ctx, cert.ID, Patch{
		Name:     &name,
		Active:   &active,
		Duration: &duration,
		Tags:     &refs,
	})
	require.NoError(t, err)

	assert.Equal(t, cert.Name, updated.Name)
	assert.True(t, updated.Active)
	assert.Equal(t, cert.TagIDs(), updated.TagIDs())
	assert.Equal(t, clock.Now(), updated.UpdatedAt.UTC())
}

func TestUpdateCertificateFields_ReplacesTags(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	cert, err := svc.CreateCertificate(ctx, spaInput(tags.Ref{Name: "relax"}, tags.Ref{Name: "water"}))
	require.NoError(t, err)

	refs := []tags.Ref{{Name: "water"}, {Name: "gift"}}
	updated, err := svc.UpdateCertificateFields(ctx, cert.ID, Patch{Tags: &refs})
	require.NoError(t, err)

	got := make([]string, 0, len(updated.Tags))
	for _, tg := range updated.Tags {
		got = append(got, tg.Name)
	}
	assert.ElementsMatch(t, []string{"water", "gift"}, got)
}

func TestUpdateCertificateFields_InvalidFieldRollsBack(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	cert, err := svc.CreateCertificate(ctx, spaInput())
	require.NoError(t, err)

	name := "Renamed"
	badDuration := -1
	_, err = svc.UpdateCertificateFields(ctx, cert.ID, Patch{Name: &name, Duration: &badDuration})
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))

	reloaded, err := svc.GetCertificate(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spa day", reloaded.Name)
}

func TestUpdateCertificateFields_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	name := "x"

	_, err := svc.UpdateCertificateFields(ctx, 0, Patch{Name: &name})
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))

	_, err = svc.UpdateCertificateFields(ctx, 5, Patch{})
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))

	_, err = svc.UpdateCertificateFields(ctx, 404, Patch{Name: &name})
	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(err))
}

func TestDeleteCertificate_GuardedByOrders(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()
	ordered, err := svc.CreateCertificate(ctx, spaInput())
	require.NoError(t, err)
	in := spaInput()
	in.Name = "Unordered"
	free, err := svc.CreateCertificate(ctx, in)
	require.NoError(t, err)

	user := testutil.Seed{Store: s, T: t}.User("bob", model.RoleUser)
	require.NoError(t, s.CreateOrder(ctx, &model.Order{
		UserID:      user.ID,
		TotalAmount: ordered.Price,
		PurchasedAt: time.Now(),
		Items:       datatypes.JSONSlice[model.OrderItem]{{CertificateID: ordered.ID, Name: ordered.Name, Price: ordered.Price}},
	}))

	err = svc.DeleteCertificate(ctx, ordered.ID)
	assert.Equal(t, errs.KindLinkedToAnotherResource, errs.KindOf(err))
	_, err = svc.GetCertificate(ctx, ordered.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteCertificate(ctx, free.ID))
	_, err = svc.GetCertificate(ctx, free.ID)
	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(err))

	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(svc.DeleteCertificate(ctx, free.ID)))
}

func TestSearchCertificates_Pagination(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()
	seed := testutil.Seed{Store: s, T: t}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seed.Certificate("Spa", "10", base.Add(time.Duration(i)*time.Hour), "spa")
	}
	seed.Certificate("Other", "10", base)

	res, err := svc.SearchCertificates(ctx, map[string]string{"tag": "spa", "sort": "date_desc"}, 2, 2)
	require.NoError(t, err)

	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(5), res.Meta.Total)
	assert.Equal(t, 3, res.Meta.LastPage)
	assert.Equal(t, 3, res.Meta.NextPage)
	assert.Equal(t, 1, res.Meta.PreviousPage)
	assert.Equal(t, int64(3), res.Items[0].ID)

	_, err = svc.SearchCertificates(ctx, map[string]string{"tag": "spa"}, 4, 2)
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))

	_, err = svc.SearchCertificates(ctx, map[string]string{"tag": "spa"}, 1, 51)
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))

	_, err = svc.SearchCertificates(ctx, map[string]string{}, 1, 10)
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))
}

func TestListAllCertificates_EmptyCatalog(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.ListAllCertificates(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Meta.LastPage)
}

func TestSearchCertificatesByTags(t *testing.T) {
	svc, s, _ := newTestService(t)
	seed := testutil.Seed{Store: s, T: t}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed.Certificate("a only", "10", base, "a")
	both := seed.Certificate("a and b", "10", base, "a", "b")

	res, err := svc.SearchCertificatesByTags(context.Background(), []string{"a", "b"}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, both.ID, res.Items[0].ID)
}

func TestTags_CreateGetDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "travel")
	require.NoError(t, err)

	_, err = svc.CreateTag(ctx, "travel")
	assert.Equal(t, errs.KindResourceAlreadyExists, errs.KindOf(err))

	_, err = svc.CreateTag(ctx, "bad tag")
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))

	got, err := svc.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "travel", got.Name)

	require.NoError(t, svc.DeleteTag(ctx, tag.ID))
	_, err = svc.GetTag(ctx, tag.ID)
	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(err))
	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(svc.DeleteTag(ctx, tag.ID)))
}
