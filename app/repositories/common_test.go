package repositories

import (
	"bytes"
	"testing"

	"postviewer/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetNextID(t *testing.T) {
	db := openTestDB(t)

	t.Run("first ID", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, uint64(1), id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			for i := uint64(2); i <= 5; i++ {
				id, err := getNextID(txn, PostSeqKey)
				assert.NoError(t, err)
				assert.Equal(t, i, id)
			}
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("different sequence keys", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			commentID, err := getNextID(txn, CommentSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, uint64(1), commentID, "Comment sequence should start from 1")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("persistence", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			_, err := getNextID(txn, "test:seq")
			return err
		})
		require.NoError(t, err)

		err = db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, "test:seq")
			assert.Equal(t, uint64(2), id)
			return err
		})
		assert.NoError(t, err)
	})

	t.Run("corrupt sequence", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte("bad:seq"), []byte{1, 2})
		})
		require.NoError(t, err)

		err = db.Update(func(txn *badger.Txn) error {
			_, err := getNextID(txn, "bad:seq")
			return err
		})
		assert.Error(t, err)
	})
}

func TestCommentKeyOrder(t *testing.T) {
	assert.Equal(t, -1, bytes.Compare(commentKey("1", 9), commentKey("1", 10)))
	assert.True(t, bytes.HasPrefix(commentKey("1", 3), commentPrefix("1")))
	assert.False(t, bytes.HasPrefix(commentKey("12", 3), commentPrefix("1")))
}

func TestPostKeyOrder(t *testing.T) {
	assert.Equal(t, -1, bytes.Compare(postKey("9"), postKey("10")))
	assert.NotEqual(t, postKey("7"), postKey("007"))
	assert.Equal(t, []byte("post:abc"), postKey("abc"))
}

func TestMarshalEntity(t *testing.T) {
	data, err := marshalEntity(&models.Post{ID: "1", Title: "t"})
	require.NoError(t, err)

	var post models.Post
	require.NoError(t, unmarshalEntity(data, &post))
	assert.Equal(t, "t", post.Title)

	assert.Error(t, unmarshalEntity([]byte("{"), &post))
	_, err = marshalEntity(make(chan int))
	assert.Error(t, err)
}

func TestBackupRestore(t *testing.T) {
	src := openTestDB(t)
	posts := NewBadgerPostRepository(src)
	require.NoError(t, posts.Create(&models.Post{Title: "kept"}))

	var buf bytes.Buffer
	require.NoError(t, Backup(src, &buf))

	dst := openTestDB(t)
	require.NoError(t, Restore(dst, &buf))

	post, err := NewBadgerPostRepository(dst).GetByID("1")
	require.NoError(t, err)
	assert.Equal(t, "kept", post.Title)

	require.NoError(t, Clear(dst))
	_, err = NewBadgerPostRepository(dst).GetByID("1")
	assert.ErrorIs(t, err, ErrNotFound)
}
