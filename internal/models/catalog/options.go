package catalog

import "github.com/google/uuid"

func WithVideoID(id uuid.UUID) VideoOption {
	return func(v *Video) { v.ID = id }
}

func WithSubjectCode(code string) VideoOption {
	return func(v *Video) { v.SubjectCode = code }
}

func WithChapter(chapter int) VideoOption {
	return func(v *Video) { v.Chapter = chapter }
}

func WithName(name string) VideoOption {
	return func(v *Video) { v.Name = name }
}

func WithThumbKey(key string) VideoOption {
	return func(v *Video) { v.ThumbKey = key }
}

func WithNotesKey(key string) VideoOption {
	return func(v *Video) { v.NotesKey = key }
}

func WithVideoKey(key string) VideoOption {
	return func(v *Video) { v.VideoKey = key }
}

func WithMentor(id uuid.UUID) VideoOption {
	return func(v *Video) { v.MentorID = id }
}
