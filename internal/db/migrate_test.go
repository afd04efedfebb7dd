package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestIndexesCoverEveryCollection(t *testing.T) {
	all := indexes()
	for _, name := range []string{UsersCollection, CasesCollection, ClientsCollection, DocumentsCollection, TasksCollection} {
		assert.NotEmpty(t, all[name], name)
	}

	users := all[UsersCollection]
	require.Len(t, users, 1)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, users[0].Keys)
	assert.NotNil(t, users[0].Options)

	tasks := all[TasksCollection]
	require.Len(t, tasks, 1)
	assert.Equal(t, bson.D{
		{Key: "userId", Value: 1},
		{Key: "dueDate", Value: 1},
		{Key: "priorityRank", Value: -1},
	}, tasks[0].Keys)
}
