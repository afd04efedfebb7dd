package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"legal_practice/internal/apperrors"
	"legal_practice/internal/domain"
)

func TestUsersRejectDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	_, err := users.Create(ctx, domain.NewUser{Email: "a@firm.test", Password: "pw"})
	require.NoError(t, err)
	_, err = users.Create(ctx, domain.NewUser{Email: " A@FIRM.test", Password: "pw"})
	assert.True(t, apperrors.Is(err, apperrors.KindDuplicateKey))
}

func TestDeletingClientLeavesDependents(t *testing.T) {
	ctx := context.Background()
	db := New()
	owner := bson.NewObjectID()

	clientID, err := db.Clients().Add(ctx, domain.NewClient{OwnerID: owner, Name: "Acme"})
	require.NoError(t, err)
	_, err = db.Cases().Add(ctx, domain.NewCase{OwnerID: owner, Title: "Acme v. Co", ClientRef: clientID.Hex()})
	require.NoError(t, err)
	_, err = db.Documents().Add(ctx, domain.NewDocument{OwnerID: owner, ClientRef: clientID.Hex()})
	require.NoError(t, err)

	require.NoError(t, db.Clients().Delete(ctx, clientID))

	cases, err := db.Cases().ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, clientID, cases[0].Client)
	assert.Nil(t, cases[0].ClientInfo)

	docs, err := db.Documents().ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, clientID, *docs[0].ClientID)
}

func TestTaskOrdering(t *testing.T) {
	ctx := context.Background()
	tasks := New().Tasks()
	owner := bson.NewObjectID()
	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	later := due.Add(48 * time.Hour)

	for _, in := range []domain.NewTask{
		{Title: "later", DueDate: &later, Priority: "urgent"},
		{Title: "low", DueDate: &due, Priority: "low"},
		{Title: "high", DueDate: &due, Priority: "high"},
		{Title: "undated"},
	} {
		in.OwnerID = owner
		_, err := tasks.Add(ctx, in)
		require.NoError(t, err)
	}

	views, err := tasks.ListForOwner(ctx, owner)
	require.NoError(t, err)
	var titles []string
	for _, v := range views {
		titles = append(titles, v.Title)
	}
	assert.Equal(t, []string{"undated", "high", "low", "later"}, titles)
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	clients := New().Clients()
	id, err := clients.Add(ctx, domain.NewClient{OwnerID: bson.NewObjectID(), Name: "Before"})
	require.NoError(t, err)
	before, err := clients.FindByID(ctx, id)
	require.NoError(t, err)

	name := "After"
	require.NoError(t, clients.Update(ctx, id, domain.ClientPatch{Name: &name}))
	after, err := clients.FindByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "After", after.Name)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
}

func TestListsJoinOnlyOwnRecords(t *testing.T) {
	ctx := context.Background()
	db := New()
	victim, intruder := bson.NewObjectID(), bson.NewObjectID()

	clientID, err := db.Clients().Add(ctx, domain.NewClient{OwnerID: victim, Name: "Private Client", Email: "private@corp.test"})
	require.NoError(t, err)
	caseID, err := db.Cases().Add(ctx, domain.NewCase{OwnerID: victim, Title: "Private Case", ClientRef: clientID.Hex()})
	require.NoError(t, err)

	_, err = db.Cases().Add(ctx, domain.NewCase{OwnerID: intruder, Title: "Mine", ClientRef: clientID.Hex()})
	require.NoError(t, err)
	_, err = db.Tasks().Add(ctx, domain.NewTask{OwnerID: intruder, Title: "Peek", CaseRef: caseID.Hex(), ClientRef: clientID.Hex()})
	require.NoError(t, err)
	_, err = db.Documents().Add(ctx, domain.NewDocument{OwnerID: intruder, CaseRef: caseID.Hex(), ClientRef: clientID.Hex()})
	require.NoError(t, err)

	cases, err := db.Cases().ListForOwner(ctx, intruder)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Nil(t, cases[0].ClientInfo)

	tasks, err := db.Tasks().ListForOwner(ctx, intruder)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].CaseInfo)
	assert.Nil(t, tasks[0].ClientInfo)

	docs, err := db.Documents().ListForOwner(ctx, intruder)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0].CaseInfo)
	assert.Nil(t, docs[0].ClientInfo)
}
