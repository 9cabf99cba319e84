package service

import (
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/pkg/api"
)

// userRef expands id. Users missing from the directory keep their id only.
func userRef(id string, profiles map[string]domain.Profile) api.UserRef {
	p, ok := profiles[id]
	if !ok {
		return api.UserRef{Id: id}
	}

	return api.UserRef{Id: p.ID, Name: p.Name, Email: p.Email}
}

func toAPIComments(thread domain.Thread, profiles map[string]domain.Profile) []api.Comment {
	comments := make([]api.Comment, len(thread))

	for i, c := range thread {
		replies := make([]api.Reply, len(c.Replies))
		for j, r := range c.Replies {
			replies[j] = api.Reply{
				Id:        r.ID,
				User:      userRef(r.UserID, profiles),
				Text:      r.Text,
				CreatedAt: r.CreatedAt,
			}
		}

		comments[i] = api.Comment{
			Id:        c.ID,
			User:      userRef(c.UserID, profiles),
			Text:      c.Text,
			Replies:   replies,
			CreatedAt: c.CreatedAt,
		}
	}

	return comments
}

func toAPIQuestion(q *domain.Question, profiles map[string]domain.Profile) *api.Question {
	out := &api.Question{
		Id:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		Topic:         q.Topic,
		Student:       userRef(q.StudentID, profiles),
		Status:        api.QuestionStatus(q.Status),
		Comments:      toAPIComments(q.Comments, profiles),
		ReopenHistory: make([]api.ReopenEntry, len(q.ReopenHistory)),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}

	if q.AssignedTo != "" {
		tutor := userRef(q.AssignedTo, profiles)
		out.AssignedTo = &tutor
	}

	if q.Resolution != "" {
		resolution := q.Resolution
		out.Resolution = &resolution
	}

	if q.Rating != nil {
		out.Rating = &api.Rating{
			Score:    q.Rating.Score,
			Feedback: q.Rating.Feedback,
			RatedAt:  q.Rating.RatedAt,
		}
	}

	for i, e := range q.ReopenHistory {
		out.ReopenHistory[i] = api.ReopenEntry{
			Reason:         e.Reason,
			PreviousStatus: api.QuestionStatus(e.PreviousStatus),
			Date:           e.Date,
		}
	}

	return out
}
