package mongodb

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/Vikasg7/alerty/internal/port/repository"
)

var (
	testClient *mongo.Client
	testRepo   *ListingRepository
)

// TestMain starts a throwaway MongoDB container for the whole package. The
// suite is skipped under -short and when Docker is not reachable.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("Docker not available, skipping mongo integration tests: %s", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	uri := fmt.Sprintf("mongodb://%s/tracker_test", resource.GetHostPort("27017/tcp"))
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		testClient, err = NewMongoDBConnection(ctx, uri)
		return err
	})
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	testRepo = NewListingRepository(testClient.Database("tracker_test"), logger.NewNop())

	code := m.Run()

	_ = testClient.Disconnect(context.Background())
	_ = pool.Purge(resource)
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testRepo.listings.Drop(ctx))
	require.NoError(t, testRepo.state.Drop(ctx))
}

func sampleListing(key string) entity.Listing {
	return entity.Listing{
		Key:          key,
		SourceType:   entity.SourceAmazon,
		Title:        "Sample " + key,
		ReferenceURL: "https://amazon.in/dp/" + key,
		Price:        entity.Price{Current: 1299, Last: 1499},
		InStock:      true,
		Rating:       4.2,
		RatingCount:  310,
		LastSeenAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestListingRepository_RoundTrip(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	l := sampleListing("B0ROUNDTRI")
	require.NoError(t, testRepo.Put(ctx, &l))

	got, err := testRepo.Get(ctx, "B0ROUNDTRI")
	require.NoError(t, err)
	assert.Equal(t, l, *got)

	_, err = testRepo.Get(ctx, "B0MISSING0")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingRepository_PutIsUpsert(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	l := sampleListing("B0UPSERT00")
	require.NoError(t, testRepo.Put(ctx, &l))
	l.Price.Current = 999
	require.NoError(t, testRepo.Put(ctx, &l))

	all, err := testRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 999.0, all["B0UPSERT00"].Price.Current)
}

func TestListingRepository_Delete(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	l := sampleListing("B0DELETE00")
	require.NoError(t, testRepo.Put(ctx, &l))
	require.NoError(t, testRepo.Delete(ctx, "B0DELETE00"))
	assert.ErrorIs(t, testRepo.Delete(ctx, "B0DELETE00"), repository.ErrNotFound)
}

func TestListingRepository_ReplaceAll(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	stale := sampleListing("B0STALE000")
	kept := sampleListing("B0KEPT0000")
	require.NoError(t, testRepo.Put(ctx, &stale))
	require.NoError(t, testRepo.Put(ctx, &kept))

	kept.Price.Current = 1100
	added := sampleListing("B0ADDED000")
	require.NoError(t, testRepo.ReplaceAll(ctx, map[string]entity.Listing{
		kept.Key:  kept,
		added.Key: added,
	}))

	all, err := testRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.NotContains(t, all, "B0STALE000")
	assert.Equal(t, 1100.0, all["B0KEPT0000"].Price.Current)
}

func TestListingRepository_RefreshingFlag(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	v, err := testRepo.GetRefreshing(ctx)
	require.NoError(t, err)
	assert.False(t, v, "missing state document reads as not refreshing")

	require.NoError(t, testRepo.SetRefreshing(ctx, true))
	v, err = testRepo.GetRefreshing(ctx)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, testRepo.SetRefreshing(ctx, false))
	v, err = testRepo.GetRefreshing(ctx)
	require.NoError(t, err)
	assert.False(t, v)
}
