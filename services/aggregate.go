package services

import (
	"sort"
	"time"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

const (
	recentAttemptCount = 5
	leaderboardSize    = 10
	trendWindow        = 7 * 24 * time.Hour
	signupSeriesDays   = 30
)

type CategoryProgress struct {
	CategoryID   uint    `json:"category_id"`
	Name         string  `json:"name"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}

type RecentAttempt struct {
	ID          uuid.UUID  `json:"id"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	Score       int        `json:"score"`
	TimeTaken   int        `json:"time_taken"`
	CompletedAt *time.Time `json:"completed_at"`
}

type StudentProgress struct {
	TotalAttempts    int                `json:"total_attempts"`
	AverageScore     float64            `json:"average_score"`
	BestScore        int                `json:"best_score"`
	AverageTimeTaken float64            `json:"average_time_taken"`
	Categories       []CategoryProgress `json:"categories"`
	Recent           []RecentAttempt    `json:"recent_attempts"`
}

// SummarizeStudentProgress reduces one student's completed attempts.
func SummarizeStudentProgress(attempts []models.Attempt) StudentProgress {
	p := StudentProgress{Categories: []CategoryProgress{}, Recent: []RecentAttempt{}}
	if len(attempts) == 0 {
		return p
	}

	var scoreSum, timeSum int
	byCategory := map[uint]*CategoryProgress{}
	sums := map[uint]int{}
	for _, a := range attempts {
		scoreSum += a.Score
		timeSum += a.TimeTaken
		p.BestScore = max(p.BestScore, a.Score)

		c, ok := byCategory[a.CategoryID]
		if !ok {
			c = &CategoryProgress{CategoryID: a.CategoryID}
			if a.Category != nil {
				c.Name = a.Category.Name
			}
			byCategory[a.CategoryID] = c
		}
		c.Attempts++
		sums[a.CategoryID] += a.Score
	}
	p.TotalAttempts = len(attempts)
	p.AverageScore = round2(float64(scoreSum) / float64(len(attempts)))
	p.AverageTimeTaken = round2(float64(timeSum) / float64(len(attempts)))

	for id, c := range byCategory {
		c.AverageScore = round2(float64(sums[id]) / float64(c.Attempts))
		p.Categories = append(p.Categories, *c)
	}
	sort.Slice(p.Categories, func(i, j int) bool {
		if p.Categories[i].Name != p.Categories[j].Name {
			return p.Categories[i].Name < p.Categories[j].Name
		}
		return p.Categories[i].CategoryID < p.Categories[j].CategoryID
	})

	for i := len(attempts) - 1; i >= 0 && len(p.Recent) < recentAttemptCount; i-- {
		p.Recent = append(p.Recent, recent(attempts[i]))
	}
	return p
}

func recent(a models.Attempt) RecentAttempt {
	r := RecentAttempt{ID: a.ID, Score: a.Score, TimeTaken: a.TimeTaken, CompletedAt: a.CompletedAt}
	if a.Category != nil {
		r.Category = a.Category.Name
	}
	if a.DifficultyLevel != nil {
		r.Difficulty = a.DifficultyLevel.Name
	}
	return r
}

type Trend struct {
	Current  int     `json:"current"`
	Previous int     `json:"previous"`
	Change   float64 `json:"change"`
}

// weekOverWeek compares the trailing 7 days with the 7 days before them.
func weekOverWeek(times []time.Time, now time.Time) Trend {
	var t Trend
	currentStart := now.Add(-trendWindow)
	previousStart := currentStart.Add(-trendWindow)
	for _, at := range times {
		switch {
		case at.After(now):
		case at.After(currentStart):
			t.Current++
		case at.After(previousStart):
			t.Previous++
		}
	}
	switch {
	case t.Previous > 0:
		t.Change = round2(float64(t.Current-t.Previous) / float64(t.Previous) * 100)
	case t.Current > 0:
		t.Change = 100
	}
	return t
}

type SignupPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// signupSeries buckets signups of the last 30 calendar days in loc. Days
// without signups are left out.
func signupSeries(users []models.User, now time.Time, loc *time.Location) []SignupPoint {
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(signupSeriesDays - 1))

	counts := map[string]int{}
	for _, u := range users {
		at := u.CreatedAt.In(loc)
		if at.Before(first) || at.After(local) {
			continue
		}
		counts[at.Format(time.DateOnly)]++
	}

	series := make([]SignupPoint, 0, len(counts))
	for day, n := range counts {
		series = append(series, SignupPoint{Date: day, Count: n})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

type Trends struct {
	NewUsers          Trend `json:"new_users"`
	NewQuestions      Trend `json:"new_questions"`
	CompletedAttempts Trend `json:"completed_attempts"`
}

type SystemAnalytics struct {
	TotalUsers     int            `json:"total_users"`
	UserStats      map[string]int `json:"user_stats"`
	TotalQuestions int            `json:"total_questions"`
	TotalQuizzes   int            `json:"total_quizzes"`
	AverageScore   float64        `json:"average_score"`
	Trends         Trends         `json:"trends"`
	Signups        []SignupPoint  `json:"signups"`
}

// SummarizeSystem reduces every user, question and completed attempt.
// TotalQuestions counts active questions only.
func SummarizeSystem(users []models.User, questions []models.Question, attempts []models.Attempt, now time.Time, loc *time.Location) SystemAnalytics {
	s := SystemAnalytics{TotalUsers: len(users), UserStats: map[string]int{}, TotalQuizzes: len(attempts)}

	userTimes := make([]time.Time, len(users))
	for i, u := range users {
		s.UserStats[u.Role]++
		userTimes[i] = u.CreatedAt
	}

	questionTimes := make([]time.Time, 0, len(questions))
	for _, q := range questions {
		if q.IsActive {
			s.TotalQuestions++
		}
		questionTimes = append(questionTimes, q.CreatedAt)
	}

	scoreSum := 0
	attemptTimes := make([]time.Time, 0, len(attempts))
	for _, a := range attempts {
		scoreSum += a.Score
		if a.CompletedAt != nil {
			attemptTimes = append(attemptTimes, *a.CompletedAt)
		}
	}
	if len(attempts) > 0 {
		s.AverageScore = round2(float64(scoreSum) / float64(len(attempts)))
	}

	s.Trends = Trends{
		NewUsers:          weekOverWeek(userTimes, now),
		NewQuestions:      weekOverWeek(questionTimes, now),
		CompletedAttempts: weekOverWeek(attemptTimes, now),
	}
	s.Signups = signupSeries(users, now, loc)
	return s
}

type LeaderboardEntry struct {
	StudentID    uuid.UUID `json:"student_id"`
	FullName     string    `json:"full_name"`
	Attempts     int       `json:"attempts"`
	AverageScore float64   `json:"average_score"`
}

// RankStudents orders students by mean score, highest first. Ties keep the
// order in which the students first appear in attempts.
func RankStudents(attempts []models.Attempt, users []models.User, limit int) []LeaderboardEntry {
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	var order []uuid.UUID
	sums := map[uuid.UUID]int{}
	counts := map[uuid.UUID]int{}
	for _, a := range attempts {
		if _, ok := counts[a.StudentID]; !ok {
			order = append(order, a.StudentID)
		}
		counts[a.StudentID]++
		sums[a.StudentID] += a.Score
	}

	board := make([]LeaderboardEntry, len(order))
	for i, id := range order {
		board[i] = LeaderboardEntry{
			StudentID:    id,
			FullName:     names[id],
			Attempts:     counts[id],
			AverageScore: round2(float64(sums[id]) / float64(counts[id])),
		}
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].AverageScore > board[j].AverageScore })
	if len(board) > limit {
		board = board[:limit]
	}
	return board
}

type TutorAnalytics struct {
	QuestionsAuthored int                `json:"questions_authored"`
	ActiveQuestions   int                `json:"active_questions"`
	ByCategory        map[string]int     `json:"by_category"`
	ByDifficulty      map[string]int     `json:"by_difficulty"`
	AnswersRecorded   int                `json:"answers_recorded"`
	CorrectRate       float64            `json:"correct_rate"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
}

// SummarizeTutor reduces a tutor's questions and the answers given to them.
// The leaderboard is filled separately.
func SummarizeTutor(questions []models.Question, answers []models.Answer) TutorAnalytics {
	t := TutorAnalytics{
		QuestionsAuthored: len(questions),
		ByCategory:        map[string]int{},
		ByDifficulty:      map[string]int{},
		AnswersRecorded:   len(answers),
		Leaderboard:       []LeaderboardEntry{},
	}
	for _, q := range questions {
		if q.IsActive {
			t.ActiveQuestions++
		}
		if q.Category != nil {
			t.ByCategory[q.Category.Name]++
		}
		if q.DifficultyLevel != nil {
			t.ByDifficulty[q.DifficultyLevel.Name]++
		}
	}
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	if len(answers) > 0 {
		t.CorrectRate = round2(float64(correct) / float64(len(answers)) * 100)
	}
	return t
}
