package mock

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/models"
)

var (
	ErrNoMembers      = errors.New("no members registered")
	ErrInvalidOptions = errors.New("invalid mock options")
)

// RegisterAllMembers inserts every name from MemberNames.
func RegisterAllMembers(repo database.MemberRepository) ([]models.Member, error) {
	members := make([]models.Member, 0, len(MemberNames))
	for _, name := range MemberNames {
		member, err := repo.Insert(name)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, nil
}

// GenerateMockRoom creates a room, fills it with messages sent by the local
// user and points the room's last-message cache at the final one.
func GenerateMockRoom(f database.RepositoryFactory, name string, roomType models.RoomType, messages []string) (*models.Room, error) {
	room, err := f.Rooms().Insert(name, roomType)
	if err != nil {
		return nil, err
	}

	var last *models.Message
	for _, content := range messages {
		last, err = f.Messages().Insert(content, models.SelfID, room)
		if err != nil {
			return nil, err
		}
	}

	if last != nil {
		if err := f.Rooms().UpdateLastMessage(room, last); err != nil {
			return nil, err
		}
	}
	return room, nil
}

type BulkOptions struct {
	RoomCount    int
	MessageCount int
	MinMembers   int
	MaxMembers   int
}

func DefaultBulkOptions() BulkOptions {
	return BulkOptions{RoomCount: 5, MessageCount: 5, MinMembers: 0, MaxMembers: 4}
}

func (o BulkOptions) validate() error {
	if o.RoomCount < 0 || o.MessageCount < 0 || o.MinMembers < 0 || o.MaxMembers < o.MinMembers {
		return ErrInvalidOptions
	}
	return nil
}

// BulkGenerateMockRoom creates up to RoomCount rooms with random names,
// phrases and members picked from the registered roster. Direct rooms always
// get exactly one member.
func BulkGenerateMockRoom(f database.RepositoryFactory, rng *rand.Rand, opts BulkOptions) ([]models.Room, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	members, err := f.Members().List()
	if err != nil {
		return nil, err
	}

	names := prefix(shuffled(rng, RoomNames), opts.RoomCount)
	rooms := make([]models.Room, 0, len(names))

	for _, n := range names {
		messages := prefix(shuffled(rng, Messages), opts.MessageCount)
		memberCount := opts.MinMembers + rng.Intn(opts.MaxMembers-opts.MinMembers+1)
		selected := prefix(shuffled(rng, members), memberCount)

		var roomType models.RoomType
		if n.IsDM {
			if len(members) == 0 {
				return nil, ErrNoMembers
			}
			if len(selected) == 0 {
				selected = members[:1]
			}
			roomType = models.NewDirectRoomType(selected[0].ID)
		} else {
			ids := make([]uuid.UUID, len(selected))
			for i, m := range selected {
				ids[i] = m.ID
			}
			roomType = models.NewGroupRoomType(ids)
		}

		room, err := GenerateMockRoom(f, n.Name, roomType, messages)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

type sampleRoom struct {
	name     string
	messages []string
}

var sampleRooms = []sampleRoom{
	{"DM - Mike", []string{"Welcome to the chat room!", "Nice to meet you!", "Hello!"}},
	{"Group - Dev Team", []string{"How is the project going?", "Going smoothly", "Next meeting is tomorrow"}},
	{"Group - My Self", []string{"It's sunny today", "Perfect day for a walk", "Lovely weather"}},
}

// AddSampleData creates three fixed rooms whose messages are one hour apart,
// the newest at now.
func AddSampleData(f database.RepositoryFactory, now time.Time) ([]models.Room, error) {
	rooms := make([]models.Room, 0, len(sampleRooms))

	for _, sample := range sampleRooms {
		room, err := f.Rooms().Insert(sample.name, models.NewGroupRoomType(nil))
		if err != nil {
			return nil, err
		}

		var last *models.Message
		n := len(sample.messages)
		for i, content := range sample.messages {
			at := now.Add(-time.Duration(n-1-i) * time.Hour)
			last, err = f.Messages().Insert(content, models.SelfID, room, database.WithCreatedAt(at))
			if err != nil {
				return nil, err
			}
		}
		if last != nil {
			if err := f.Rooms().UpdateLastMessage(room, last); err != nil {
				return nil, err
			}
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

// Clean removes rooms and messages. Members stay registered.
func Clean(f database.RepositoryFactory) error {
	if err := f.Rooms().DeleteAll(); err != nil {
		return err
	}
	return f.Messages().DeleteAll()
}
