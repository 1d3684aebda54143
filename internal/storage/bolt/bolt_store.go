package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/pkg/tracker"
	"go.etcd.io/bbolt"
)

const (
	rootBucket    = "users"
	apiKeysBucket = "apikeys"
	defaultUserID = "default"
)

// per-user sub-buckets
const (
	habitsBucket      = "habits"
	completionsBucket = "completions"
	goalsBucket       = "goals"
	notesBucket       = "notes"
	remindersBucket   = "reminders"
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(rootBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(apiKeysBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func writeBucket(tx *bbolt.Tx, userID, sub string) (*bbolt.Bucket, error) {
	if userID == "" {
		userID = defaultUserID
	}
	users := tx.Bucket([]byte(rootBucket))
	ub, err := users.CreateBucketIfNotExists([]byte(userID))
	if err != nil {
		return nil, err
	}
	return ub.CreateBucketIfNotExists([]byte(sub))
}

// readBucket resolves a user sub-bucket inside a read transaction. A nil
// result means the user has no writes yet and reads should see empty data.
func readBucket(tx *bbolt.Tx, userID, sub string) *bbolt.Bucket {
	if userID == "" {
		userID = defaultUserID
	}
	ub := tx.Bucket([]byte(rootBucket)).Bucket([]byte(userID))
	if ub == nil {
		return nil
	}
	return ub.Bucket([]byte(sub))
}

// completion keys are habitID/date so a cursor prefix scan covers one habit.
func completionKey(habitID, date string) []byte {
	return fmt.Appendf(nil, "%s/%s", habitID, date)
}

func splitCompletionKey(k []byte) (habitID, date string, ok bool) {
	i := bytes.LastIndexByte(k, '/')
	if i < 0 {
		return "", "", false
	}
	return string(k[:i]), string(k[i+1:]), true
}

func (s *Store) PutHabit(userID string, h tracker.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(h.ID), val)
	})
}

func (s *Store) GetHabit(userID, habitID string) (tracker.Habit, bool, error) {
	var h tracker.Habit
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, habitsBucket)
		if bucket == nil {
			return nil
		}
		v := bucket.Get([]byte(habitID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &h)
	})
	return h, found, err
}

func (s *Store) ListHabits(userID string) ([]tracker.Habit, error) {
	out := []tracker.Habit{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, habitsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var h tracker.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (s *Store) DeleteHabit(userID, habitID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := writeBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if err := habits.Delete([]byte(habitID)); err != nil {
			return err
		}

		// cascade completions
		completions, err := writeBucket(tx, userID, completionsBucket)
		if err != nil {
			return err
		}
		c := completions.Cursor()
		prefix := []byte(habitID + "/")
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) AddCompletion(userID string, comp tracker.Completion) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, completionsBucket)
		if err != nil {
			return err
		}
		return bucket.Put(completionKey(comp.HabitID, comp.Date), []byte{})
	})
}

func (s *Store) RemoveCompletion(userID, habitID, date string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, completionsBucket)
		if err != nil {
			return err
		}
		return bucket.Delete(completionKey(habitID, date))
	})
}

func (s *Store) HasCompletion(userID, habitID, date string) (bool, error) {
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, completionsBucket)
		if bucket != nil {
			found = bucket.Get(completionKey(habitID, date)) != nil
		}
		return nil
	})
	return found, err
}

func (s *Store) ListCompletions(userID, since string) ([]tracker.Completion, error) {
	out := []tracker.Completion{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, completionsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			habitID, date, ok := splitCompletionKey(k)
			if !ok {
				return nil
			}
			if since != "" && date < since {
				return nil
			}
			out = append(out, tracker.Completion{HabitID: habitID, Date: date})
			return nil
		})
	})
	return out, err
}

func (s *Store) ListHabitCompletions(userID, habitID string) ([]tracker.Completion, error) {
	out := []tracker.Completion{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, completionsBucket)
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		prefix := []byte(habitID + "/")
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			_, date, ok := splitCompletionKey(k)
			if !ok {
				continue
			}
			out = append(out, tracker.Completion{HabitID: habitID, Date: date})
		}
		return nil
	})
	return out, err
}

func (s *Store) PutGoal(userID string, g tracker.Goal) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, goalsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(g)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(g.ID), val)
	})
}

func (s *Store) GetGoal(userID, goalID string) (tracker.Goal, bool, error) {
	var g tracker.Goal
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, goalsBucket)
		if bucket == nil {
			return nil
		}
		v := bucket.Get([]byte(goalID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &g)
	})
	return g, found, err
}

func (s *Store) ListGoals(userID string) ([]tracker.Goal, error) {
	out := []tracker.Goal{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, goalsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var g tracker.Goal
			if err := json.Unmarshal(v, &g); err != nil {
				return err
			}
			out = append(out, g)
			return nil
		})
	})
	return out, err
}

func (s *Store) DeleteGoal(userID, goalID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, goalsBucket)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(goalID))
	})
}

func (s *Store) PutNote(userID string, n tracker.DailyNote) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, notesBucket)
		if err != nil {
			return err
		}
		// keyed by date: saving twice for a day overwrites in place
		val, err := json.Marshal(n)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(n.Date), val)
	})
}

func (s *Store) GetNote(userID, date string) (tracker.DailyNote, bool, error) {
	var n tracker.DailyNote
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, notesBucket)
		if bucket == nil {
			return nil
		}
		v := bucket.Get([]byte(date))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &n)
	})
	return n, found, err
}

func (s *Store) ListNotes(userID string, limit int) ([]tracker.DailyNote, error) {
	out := []tracker.DailyNote{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, notesBucket)
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var n tracker.DailyNote
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	})
	return out, err
}

func (s *Store) PutReminder(userID string, r tracker.Reminder) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, remindersBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(r.ID), val)
	})
}

func (s *Store) ListReminders(userID string) ([]tracker.Reminder, error) {
	out := []tracker.Reminder{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := readBucket(tx, userID, remindersBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var r tracker.Reminder
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

func (s *Store) DeleteReminder(userID, reminderID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := writeBucket(tx, userID, remindersBucket)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(reminderID))
	})
}

func (s *Store) PutAPIKey(keyHash, userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).Put([]byte(keyHash), []byte(userID))
	})
}

func (s *Store) GetAPIKey(keyHash string) (string, bool, error) {
	var userID string
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(apiKeysBucket)).Get([]byte(keyHash))
		if v != nil {
			userID = string(v)
			found = true
		}
		return nil
	})
	return userID, found, err
}

var _ storage.Store = (*Store)(nil)
