package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labmark/internal/domain"
	"labmark/internal/service"
	"labmark/mocks"
)

func TestAliasPut_TrimsAndUpserts(t *testing.T) {
	repo := new(mocks.MockAliasOverrideRepo)
	ownerID := uuid.New()

	var saved *domain.AliasOverride
	repo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.AliasOverride)
	}).Return(nil)

	svc := service.NewAliasService(repo)
	out, err := svc.Put(context.Background(), ownerID, service.AliasOverrideInput{
		Alias:     "  Testosterone, Vrij  ",
		Canonical: " Free Testosterone ",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, ownerID, saved.OwnerID)
	assert.Equal(t, "Testosterone, Vrij", out.Alias)
	assert.Equal(t, "Free Testosterone", out.Canonical)
}

func TestAliasPut_RejectsEmptyInput(t *testing.T) {
	repo := new(mocks.MockAliasOverrideRepo)
	svc := service.NewAliasService(repo)
	ownerID := uuid.New()

	cases := []service.AliasOverrideInput{
		{Alias: "   ", Canonical: "Ferritin"},
		{Alias: "...", Canonical: "Ferritin"},
		{Alias: "hb", Canonical: "   "},
	}
	for _, input := range cases {
		_, err := svc.Put(context.Background(), ownerID, input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAliasList(t *testing.T) {
	repo := new(mocks.MockAliasOverrideRepo)
	ownerID := uuid.New()
	repo.On("ListByOwner", mock.Anything, ownerID).Return([]domain.AliasOverride{
		{Alias: "hb", Canonical: "Haemoglobin"},
	}, nil)

	out, err := service.NewAliasService(repo).List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Haemoglobin", out[0].Canonical)
}

func TestAliasDelete(t *testing.T) {
	repo := new(mocks.MockAliasOverrideRepo)
	ownerID, overrideID := uuid.New(), uuid.New()
	repo.On("Delete", mock.Anything, ownerID, overrideID).Return(nil)

	err := service.NewAliasService(repo).Delete(context.Background(), ownerID, overrideID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
