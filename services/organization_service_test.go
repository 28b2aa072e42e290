package services

import (
	"context"
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrganizationService_CreateWithLogo(t *testing.T) {
	db := setupTestDB(t)
	store := NewMockObjectStore()
	events := &eventRecorder{}
	orgs := NewOrganizationService(db, NewImageService(store), events, zap.NewNop())
	ctx := context.Background()

	org, err := orgs.Create(ctx, OrganizationInput{Name: " <b>Werkbedrijf</b> ", Phone: "030-1234567", Logo: pngDataURL()})
	require.NoError(t, err)
	assert.Equal(t, "Werkbedrijf", org.Name)
	require.NotNil(t, org.LogoKey)
	assert.Contains(t, *org.LogoKey, "logos/")
	assert.True(t, store.Exists(*org.LogoKey))
	require.NotNil(t, org.LogoURL)
	assert.Equal(t, 1, events.count(realtime.EventOrganizationChanged))

	_, err = orgs.Create(ctx, OrganizationInput{Name: "Bad", Logo: "not an image"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "logo", verr.Field)

	_, err = orgs.Create(ctx, OrganizationInput{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestOrganizationService_UpdateReplacesLogo(t *testing.T) {
	db := setupTestDB(t)
	store := NewMockObjectStore()
	orgs := NewOrganizationService(db, NewImageService(store), nil, zap.NewNop())
	ctx := context.Background()

	org, err := orgs.Create(ctx, OrganizationInput{Name: "Werkbedrijf", Logo: pngDataURL()})
	require.NoError(t, err)
	oldKey := *org.LogoKey

	logo := pngDataURL()
	name := "Werkbedrijf Utrecht"
	updated, err := orgs.Update(ctx, org.ID, UpdateOrganizationInput{Name: &name, Logo: &logo})
	require.NoError(t, err)
	assert.Equal(t, "Werkbedrijf Utrecht", updated.Name)
	require.NotNil(t, updated.LogoKey)
	assert.NotEqual(t, oldKey, *updated.LogoKey)
	assert.False(t, store.Exists(oldKey))

	empty := ""
	updated, err = orgs.Update(ctx, org.ID, UpdateOrganizationInput{Logo: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.LogoKey)
	assert.Nil(t, updated.LogoURL)
	assert.Empty(t, store.Files())

	_, err = orgs.Update(ctx, 999, UpdateOrganizationInput{Name: &name})
	assert.ErrorIs(t, err, ErrOrganizationNotFound)

	list, err := orgs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSupervisorService(t *testing.T) {
	db := setupTestDB(t)
	orgs := NewOrganizationService(db, NewImageService(NewMockObjectStore()), nil, zap.NewNop())
	supervisors := NewSupervisorService(db, nil, zap.NewNop())
	ctx := context.Background()

	first, err := orgs.Create(ctx, OrganizationInput{Name: "A"})
	require.NoError(t, err)
	second, err := orgs.Create(ctx, OrganizationInput{Name: "B"})
	require.NoError(t, err)

	_, err = supervisors.Create(ctx, SupervisorInput{Name: "Nobody", OrganizationID: 999})
	assert.ErrorIs(t, err, ErrOrganizationNotFound)

	_, err = supervisors.Create(ctx, SupervisorInput{Name: "Bad email", Email: "nope", OrganizationID: first.ID})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	karin, err := supervisors.Create(ctx, SupervisorInput{Name: "Karin", Email: "karin@example.com", OrganizationID: first.ID})
	require.NoError(t, err)
	_, err = supervisors.Create(ctx, SupervisorInput{Name: "Bram", OrganizationID: second.ID})
	require.NoError(t, err)

	forFirst, err := supervisors.List(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, forFirst, 1)
	assert.Equal(t, "Karin", forFirst[0].Name)

	all, err := supervisors.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// a user assigned to Karin through the first organization
	staff := createTestUser(t, db, "staff", models.RoleStaff)
	require.NoError(t, db.Model(&models.User{}).Where("uid = ?", staff.UID).
		Updates(map[string]any{"organization_id": first.ID, "supervisor_id": karin.ID}).Error)

	moved, err := supervisors.Update(ctx, karin.ID, SupervisorInput{Name: "Karin B.", OrganizationID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, "Karin B.", moved.Name)
	assert.Equal(t, second.ID, moved.OrganizationID)

	var reloaded models.User
	require.NoError(t, db.Where("uid = ?", staff.UID).First(&reloaded).Error)
	assert.Nil(t, reloaded.SupervisorID, "users of the old organization lose the supervisor")

	_, err = supervisors.Update(ctx, 999, SupervisorInput{Name: "X", OrganizationID: first.ID})
	assert.ErrorIs(t, err, ErrSupervisorNotFound)

	require.NoError(t, db.Model(&models.User{}).Where("uid = ?", staff.UID).
		Updates(map[string]any{"organization_id": second.ID, "supervisor_id": karin.ID}).Error)
	require.NoError(t, supervisors.Delete(ctx, karin.ID))
	require.NoError(t, db.Where("uid = ?", staff.UID).First(&reloaded).Error)
	assert.Nil(t, reloaded.SupervisorID)

	assert.ErrorIs(t, supervisors.Delete(ctx, karin.ID), ErrSupervisorNotFound)
	_, err = supervisors.Get(ctx, karin.ID)
	assert.ErrorIs(t, err, ErrSupervisorNotFound)
}
