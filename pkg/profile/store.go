package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	User     string `json:"user"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

type Store interface {
	Get(ctx context.Context, user string) (*Profile, error)
	Put(ctx context.Context, profile *Profile) error
}

type DynamoDBStore struct {
	Client *dynamodb.DynamoDB
	Table  string
}

var _ Store = (*DynamoDBStore)(nil)

func (store *DynamoDBStore) Get(
	ctx context.Context,
	user string,
) (*Profile, error) {
	rsp, err := store.Client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(store.Table),
		Key: map[string]*dynamodb.AttributeValue{
			"User": {S: aws.String(user)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting profile for user `%s`: %w", user, err)
	}
	if rsp.Item == nil {
		return nil, fmt.Errorf(
			"getting profile for user `%s`: %w",
			user,
			ErrProfileNotFound,
		)
	}
	return attributesToProfile(rsp.Item), nil
}

func (store *DynamoDBStore) Put(ctx context.Context, profile *Profile) error {
	if _, err := store.Client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(store.Table),
		Item:      profileToAttributes(profile),
	}); err != nil {
		return fmt.Errorf("putting profile for user `%s`: %w", profile.User, err)
	}
	return nil
}

func profileToAttributes(profile *Profile) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"User":     {S: aws.String(profile.User)},
		"Username": {S: aws.String(profile.Username)},
		"Bio":      {S: aws.String(profile.Bio)},
	}
}

func attributesToProfile(attrs map[string]*dynamodb.AttributeValue) *Profile {
	str := func(name string) string {
		if attr, found := attrs[name]; found && attr != nil {
			return aws.StringValue(attr.S)
		}
		return ""
	}
	return &Profile{
		User:     str("User"),
		Username: str("Username"),
		Bio:      str("Bio"),
	}
}

type MemoryStore struct {
	lock     sync.RWMutex
	profiles map[string]Profile
}

var _ Store = (*MemoryStore)(nil)

func (store *MemoryStore) Get(ctx context.Context, user string) (*Profile, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	profile, found := store.profiles[user]
	if !found {
		return nil, fmt.Errorf(
			"getting profile for user `%s`: %w",
			user,
			ErrProfileNotFound,
		)
	}
	return &profile, nil
}

func (store *MemoryStore) Put(ctx context.Context, profile *Profile) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if store.profiles == nil {
		store.profiles = make(map[string]Profile)
	}
	store.profiles[profile.User] = *profile
	return nil
}
