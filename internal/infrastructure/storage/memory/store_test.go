package memory

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

func TestListFieldsOrdersByPriority(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreateField(ctx, metadata.FieldDefinition{Kind: metadata.KindProfile, Type: metadata.TypeText, MetaKey: "late", Priority: 200})
	require.NoError(t, err)
	_, err = s.CreateField(ctx, metadata.FieldDefinition{Kind: metadata.KindProfile, Type: metadata.TypeURL, MetaKey: "early", Priority: 101})
	require.NoError(t, err)
	_, err = s.CreateField(ctx, metadata.FieldDefinition{Kind: metadata.KindListing, Type: metadata.TypeURL, MetaKey: "other"})
	require.NoError(t, err)

	defs, err := s.ListFields(ctx, metadata.FieldFilter{Kind: metadata.KindProfile})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "early", defs[0].MetaKey)
	assert.Equal(t, "late", defs[1].MetaKey)
}

func TestCreateFieldValidates(t *testing.T) {
	_, err := New().CreateField(context.Background(), metadata.FieldDefinition{Type: metadata.TypeText})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidField, appErr.Code)
}

func TestDeleteGeneratedFieldsKeepsManualFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.CreateField(ctx, metadata.FieldDefinition{Kind: metadata.KindProfile, Type: metadata.TypeText, MetaKey: "manual"})
	_, _ = s.CreateField(ctx, metadata.FieldDefinition{Kind: metadata.KindProfile, Type: metadata.TypeText, MetaKey: "gen", Generated: true})
	_, _ = s.CreateField(ctx, metadata.FieldDefinition{Kind: metadata.KindListing, Type: metadata.TypeText, MetaKey: "gen_listing", Generated: true})

	n, err := s.DeleteGeneratedFields(ctx, metadata.KindProfile)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	defs, err := s.ListFields(ctx, metadata.FieldFilter{})
	require.NoError(t, err)
	keys := []string{defs[0].MetaKey, defs[1].MetaKey}
	assert.ElementsMatch(t, []string{"manual", "gen_listing"}, keys)
}

func TestTermsAndEntityTerms(t *testing.T) {
	ctx := context.Background()
	s := New()

	parent, err := s.CreateTerm(ctx, directory.Term{Taxonomy: "taxonomy1", Name: "Food Trucks"})
	require.NoError(t, err)
	child, err := s.CreateTerm(ctx, directory.Term{Taxonomy: "taxonomy1", Name: "Tacos", ParentID: parent})
	require.NoError(t, err)
	other, err := s.CreateTerm(ctx, directory.Term{Taxonomy: "taxonomy2", Name: "Other"})
	require.NoError(t, err)

	_, err = s.CreateTerm(ctx, directory.Term{Taxonomy: "taxonomy1", Name: "Orphan", ParentID: 999})
	assert.True(t, apperror.IsNotFound(err))

	term, err := s.Term(ctx, parent)
	require.NoError(t, err)
	assert.Equal(t, "food-trucks", term.Slug)

	ids, err := s.ListTerms(ctx, "taxonomy1")
	require.NoError(t, err)
	assert.Equal(t, []int64{parent, child}, ids)

	empty, err := s.ListTerms(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)

	listingID, err := s.CreateListing(ctx, directory.Listing{Title: "A"})
	require.NoError(t, err)

	require.NoError(t, s.SetEntityTerms(ctx, listingID, "taxonomy1", []int64{child}))
	assert.Equal(t, []int64{child}, s.EntityTerms(listingID, "taxonomy1"))

	err = s.SetEntityTerms(ctx, listingID, "taxonomy1", []int64{other})
	assert.True(t, apperror.IsNotFound(err), "term from another taxonomy must be rejected")
}

func TestMetaWritesAreJournaled(t *testing.T) {
	ctx := context.Background()
	s := New()

	uid, err := s.CreateUser(ctx, directory.User{Login: "jane"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, directory.User{Login: "jane"})
	require.Error(t, err)

	lid, err := s.CreateListing(ctx, directory.Listing{AuthorID: uid, Title: "Shop"})
	require.NoError(t, err)

	require.NoError(t, s.SetUserMeta(ctx, uid, "website", seed.TextValue("https://a.test")))
	require.NoError(t, s.SetUserMeta(ctx, uid, "website", seed.TextValue("https://b.test")))
	require.NoError(t, s.SetPostMeta(ctx, lid, "open", seed.BoolValue(true)))

	v, ok := s.UserMeta(uid, "website")
	require.True(t, ok)
	assert.Equal(t, "https://b.test", v.Text)

	v, ok = s.PostMeta(lid, "open")
	require.True(t, ok)
	assert.True(t, v.Bool)

	assert.True(t, apperror.IsNotFound(s.SetUserMeta(ctx, 42, "x", seed.BoolValue(true))))
	assert.True(t, apperror.IsNotFound(s.SetPostMeta(ctx, 42, "x", seed.BoolValue(true))))

	writes := s.Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, OpUserMeta, writes[0].Op)
	assert.Equal(t, OpPostMeta, writes[2].Op)
}

func TestListingStatusAndOptions(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreateListing(ctx, directory.Listing{AuthorID: 7})
	assert.True(t, apperror.IsNotFound(err))

	lid, err := s.CreateListing(ctx, directory.Listing{Title: "x", Status: directory.StatusPublish})
	require.NoError(t, err)
	require.NoError(t, s.SetListingStatus(ctx, lid, directory.StatusExpired))
	l, err := s.Listing(ctx, lid)
	require.NoError(t, err)
	assert.Equal(t, directory.StatusExpired, l.Status)

	_, err = s.GetOption(ctx, directory.VersionOption)
	assert.True(t, apperror.IsNotFound(err))
	require.NoError(t, s.SetOption(ctx, directory.VersionOption, "1.3.0"))
	v, err := s.GetOption(ctx, directory.VersionOption)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", v)
}

func TestFindUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.CreateUser(ctx, directory.User{Login: "jane", Email: "jane@example.com"})
	require.NoError(t, err)

	for _, ident := range []string{"jane", "jane@example.com", strconv.FormatInt(id, 10)} {
		u, err := s.FindUser(ctx, ident)
		require.NoError(t, err, ident)
		assert.Equal(t, id, u.ID)
	}
	_, err = s.FindUser(ctx, "nobody")
	assert.True(t, apperror.IsNotFound(err))
	_, err = s.FindUser(ctx, "999")
	assert.True(t, apperror.IsNotFound(err))
}
