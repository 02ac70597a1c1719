package mock

import "math/rand"

type RoomName struct {
	Name string
	IsDM bool
}

var RoomNames = []RoomName{
	{"Friend One", true},
	{"Friend Two", true},
	{"Friend Three", true},
	{"DM - 1st", true},
	{"DM - 2nd", true},
	{"DM - 3rd", true},
	{"Group - Dev Team", false},
	{"Group - Design Team", false},
	{"Group - Marketing", false},
	{"Group - Coffee Chat", false},
	{"Group - Book Club", false},
	{"Group - Gaming", false},
}

// Messages is the phrase table the debug auto-sender draws from.
var Messages = []string{
	"Good morning!",
	"How is today's progress going?",
	"Everything is ready for tomorrow's meeting",
	"I have an idea for a new feature",
	"Thanks for your hard work",
	"That's a great proposal",
	"Understood",
	"Let me think about it",
	"Thank you!",
	"Have a nice weekend!",
	"Hello!",
	"Good evening!",
	"What are your plans for today? Do you need a bit more time?",
	"Are you free today? Want to hang out if you can?",
}

const FallbackMessage = "Test message"

var MemberNames = []string{
	"Alice", "Bob", "Charlie", "Dave", "Eve",
	"Frank", "Grace", "Mike", "John", "Sarah",
	"Emma", "David", "Lisa", "Tom", "Jerry",
	"John", "Jane", "Jim", "Jill", "Jack",
}

// RandomMessage picks one phrase from the table.
func RandomMessage(rng *rand.Rand) string {
	if len(Messages) == 0 {
		return FallbackMessage
	}
	return Messages[rng.Intn(len(Messages))]
}

func shuffled[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	for i, j := range rng.Perm(len(items)) {
		out[i] = items[j]
	}
	return out
}

func prefix[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
