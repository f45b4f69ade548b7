// Package reading drives the reading sessions of logged in students.
package reading

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/content"
	"github.com/trezcool/ielts/core/grading"
	"github.com/trezcool/ielts/core/notify"
	"github.com/trezcool/ielts/core/progress"
	"github.com/trezcool/ielts/core/student"
)

var (
	ErrNoSession     = errors.New("no reading session, please log in again")
	ErrNoBook        = errors.New("no book opened")
	ErrNoUnit        = errors.New("no unit loaded")
	ErrInvalidWord   = errors.New("invalid vocabulary index")
	ErrInvalidAnswer = errors.New("invalid answer")
)

type session struct {
	mu sync.Mutex
	Session
}

// Controller owns one Session per logged in student.
type Controller struct {
	catalog       *content.Catalog
	tracker       *progress.Service
	notifier      notify.Notifier
	logger        core.Logger
	notifyTimeout time.Duration

	// NowFunc is mockable in tests.
	NowFunc func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewController(
	catalog *content.Catalog,
	tracker *progress.Service,
	notifier notify.Notifier,
	logger core.Logger,
	conf *core.Config,
) *Controller {
	return &Controller{
		catalog:       catalog,
		tracker:       tracker,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: conf.Notify.Timeout,
		NowFunc:       time.Now,
		sessions:      make(map[string]*session),
	}
}

func (ctrl *Controller) session(userID string) (*session, error) {
	ctrl.mu.RLock()
	defer ctrl.mu.RUnlock()
	if sess, ok := ctrl.sessions[userID]; ok {
		return sess, nil
	}
	return nil, ErrNoSession
}

// Start opens the session of a student who just logged in.
func (ctrl *Controller) Start(ctx context.Context, usr student.User) (progress.Record, error) {
	rec, err := ctrl.tracker.Init(ctx, usr)
	if err != nil {
		return progress.Record{}, errors.Wrap(err, "initializing progress")
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	ctrl.sessions[usr.ID] = &session{Session: Session{
		User:    usr,
		Found:   make(map[int]bool),
		Answers: make(grading.Answers),
	}}
	return rec, nil
}

// End closes the session of a student. The progress record is kept.
func (ctrl *Controller) End(userID string) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	delete(ctrl.sessions, userID)
}

// Active reports whether the student has a session.
func (ctrl *Controller) Active(userID string) bool {
	_, err := ctrl.session(userID)
	return err == nil
}

// Session returns a copy of the session of a student.
func (ctrl *Controller) Session(userID string) (Session, error) {
	sess, err := ctrl.session(userID)
	if err != nil {
		return Session{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.copy(), nil
}

// BooksOverview returns every book with the student's completion.
func (ctrl *Controller) BooksOverview(ctx context.Context, userID string) ([]progress.BookStats, error) {
	if _, err := ctrl.session(userID); err != nil {
		return nil, err
	}
	return ctrl.tracker.Overview(ctx, userID)
}

// OpenBook selects a book and loads its first unit.
func (ctrl *Controller) OpenBook(ctx context.Context, userID, bookID string) (UnitView, error) {
	sess, err := ctrl.session(userID)
	if err != nil {
		return UnitView{}, err
	}
	book, err := ctrl.catalog.Book(bookID)
	if err != nil {
		return UnitView{}, err
	}
	if !book.Available {
		return UnitView{}, content.ErrBookUnavailable
	}
	if len(book.Units) == 0 {
		return UnitView{}, content.ErrUnitNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.BookID = bookID
	return ctrl.loadUnit(ctx, sess, book.Units[0])
}

// LoadUnit switches to a unit of the open book. Found words, answers and the reading clock are reset.
func (ctrl *Controller) LoadUnit(ctx context.Context, userID, unitID string) (UnitView, error) {
	sess, err := ctrl.session(userID)
	if err != nil {
		return UnitView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.BookID == "" {
		return UnitView{}, ErrNoBook
	}
	return ctrl.loadUnit(ctx, sess, unitID)
}

func (ctrl *Controller) loadUnit(ctx context.Context, sess *session, unitID string) (UnitView, error) {
	if _, err := ctrl.catalog.Unit(sess.BookID, unitID); err != nil {
		return UnitView{}, err
	}
	sess.UnitID = unitID
	sess.StartedAt = ctrl.NowFunc()
	sess.Found = make(map[int]bool)
	sess.Answers = make(grading.Answers)
	return ctrl.view(ctx, sess)
}

// View returns the unit the student is reading.
func (ctrl *Controller) View(ctx context.Context, userID string) (UnitView, error) {
	sess, err := ctrl.session(userID)
	if err != nil {
		return UnitView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.UnitID == "" {
		return UnitView{}, ErrNoUnit
	}
	return ctrl.view(ctx, sess)
}

func (ctrl *Controller) view(ctx context.Context, sess *session) (UnitView, error) {
	bookID, unitID := sess.BookID, sess.UnitID
	book, err := ctrl.catalog.Book(bookID)
	if err != nil {
		return UnitView{}, err
	}
	unit, err := ctrl.catalog.Unit(bookID, unitID)
	if err != nil {
		return UnitView{}, err
	}
	vocab := ctrl.catalog.Vocabulary(bookID, unitID)

	v := UnitView{
		BookID:     bookID,
		BookTitle:  book.Title,
		UnitID:     unitID,
		Title:      unit.Title,
		Difficulty: unit.Difficulty,
		Paragraphs: unit.Paragraphs(),
		WordCount:  unit.WordCount(),
		Vocabulary: make([]VocabularyView, 0, len(vocab)),
		VocabStats: sess.vocabStats(len(vocab)),
		Grammar:    ctrl.catalog.Grammar(bookID, unitID),
		Units:      make([]UnitOption, 0, len(book.Units)),
	}
	if v.Difficulty == "" {
		v.Difficulty = "B1"
	}
	for i, entry := range vocab {
		v.Vocabulary = append(v.Vocabulary, VocabularyView{Index: i, VocabularyEntry: entry, Found: sess.Found[i]})
	}
	for c, exercises := range ctrl.catalog.Exercises(bookID, unitID).Categories() {
		for i, ex := range exercises {
			ev := ExerciseView{
				Key:      grading.ItemKey(c, i),
				Category: content.Categories[c],
				Question: ex.Question,
				Options:  ex.Options,
				Type:     ex.Type,
			}
			if ans, ok := sess.Answers[ev.Key]; ok {
				ans := ans
				ev.Selected = &ans
			}
			v.Exercises = append(v.Exercises, ev)
		}
	}
	for _, id := range book.Units {
		v.Units = append(v.Units, UnitOption{ID: id, Title: ctrl.catalog.UnitTitle(bookID, id)})
	}

	rec, err := ctrl.tracker.Get(ctx, sess.User.ID)
	if err != nil && errors.Cause(err) != progress.ErrNotFound {
		return UnitView{}, errors.Wrap(err, "getting progress")
	}
	v.Progress = progress.UnitVocabularyPercent(rec, bookID, unitID, len(vocab))
	return v, nil
}

// RevealWord toggles the found state of a vocabulary entry.
// Revealed words are persisted; hiding a word again only affects the session.
func (ctrl *Controller) RevealWord(ctx context.Context, userID string, index int) (WordReveal, error) {
	sess, err := ctrl.session(userID)
	if err != nil {
		return WordReveal{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.UnitID == "" {
		return WordReveal{}, ErrNoUnit
	}

	vocab := ctrl.catalog.Vocabulary(sess.BookID, sess.UnitID)
	if index < 0 || index >= len(vocab) {
		return WordReveal{}, ErrInvalidWord
	}

	found := !sess.Found[index]
	if found {
		if err = ctrl.tracker.RecordWordFound(ctx, sess.User, sess.BookID, sess.UnitID, index); err != nil {
			return WordReveal{}, errors.Wrap(err, "recording word")
		}
		sess.Found[index] = true
	} else {
		delete(sess.Found, index)
	}
	return WordReveal{Index: index, Found: found, Stats: sess.vocabStats(len(vocab))}, nil
}

// SelectAnswer records the option chosen for an exercise. The last answer wins.
func (ctrl *Controller) SelectAnswer(userID, key string, option int) error {
	sess, err := ctrl.session(userID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.UnitID == "" {
		return ErrNoUnit
	}

	c, i, ok := grading.ParseItemKey(key)
	if !ok {
		return errors.Wrapf(ErrInvalidAnswer, "unknown exercise %q", key)
	}
	ex, ok := ctrl.catalog.Exercises(sess.BookID, sess.UnitID).Lookup(c, i)
	if !ok {
		return errors.Wrapf(ErrInvalidAnswer, "unknown exercise %q", key)
	}
	if option < 0 || option >= len(ex.Options) {
		return errors.Wrapf(ErrInvalidAnswer, "option %d out of range", option)
	}
	sess.Answers[key] = option
	return nil
}

// Submit grades the answers of the unit, stores the result and notifies the teacher.
// The notification is attempted once; its failure is logged and never affects the stored result.
func (ctrl *Controller) Submit(ctx context.Context, userID string) (Outcome, error) {
	sess, err := ctrl.session(userID)
	if err != nil {
		return Outcome{}, err
	}

	sess.mu.Lock()
	if sess.UnitID == "" {
		sess.mu.Unlock()
		return Outcome{}, ErrNoUnit
	}
	usr, bookID, unitID := sess.User, sess.BookID, sess.UnitID
	unit, err := ctrl.catalog.Unit(bookID, unitID)
	if err != nil {
		sess.mu.Unlock()
		return Outcome{}, err
	}

	now := ctrl.NowFunc()
	res := grading.Grade(ctrl.catalog.Exercises(bookID, unitID), sess.Answers)
	minutes := int(now.Sub(sess.StartedAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	found := sess.vocabStats(len(ctrl.catalog.Vocabulary(bookID, unitID))).Found

	_, err = ctrl.tracker.RecordSubmission(ctx, usr, bookID, unitID, res, minutes, now)
	sess.mu.Unlock()
	if err != nil {
		return Outcome{}, errors.Wrap(err, "recording submission")
	}

	out := Outcome{
		Result:      res,
		ReadingTime: minutes,
		WordsRead:   unit.WordCount(),
		Feedback:    res.Tier.Feedback(),
	}

	sub := notify.NewSubmission(usr, ctrl.catalog.BookTitle(bookID), unitID, res, minutes, found, now)
	out.Notified = ctrl.notify(ctx, sub)
	return out, nil
}

func (ctrl *Controller) notify(ctx context.Context, sub notify.Submission) bool {
	if ctrl.notifier == nil {
		return false
	}
	if ctrl.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ctrl.notifyTimeout)
		defer cancel()
	}
	if _, err := ctrl.notifier.Notify(ctx, sub); err != nil {
		ctrl.logger.Error("sending submission notification", "student", sub.StudentID, "error", err)
		return false
	}
	return true
}
