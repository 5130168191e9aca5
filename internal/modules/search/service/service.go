package service

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const citizenIndex = "citizens"

// CitizenDocument is the searchable projection of a citizen.
type CitizenDocument struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
}

type CitizenIndex interface {
	IndexCitizen(doc CitizenDocument) error
	DeleteCitizen(id uint) error
	SearchCitizens(query string, limit int64) ([]uint, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	log       *zap.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, log *zap.Logger) CitizenIndex {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	searchable := []string{"full_name", "phone", "email"}
	if _, err := s.client.Index(citizenIndex).UpdateSearchableAttributes(&searchable); err != nil {
		s.log.Warn("failed to update citizens searchable attributes", zap.Error(err))
		return
	}
	s.log.Info("meilisearch indexes initialized")
}

func (s *meiliSearchService) clean(value string) string {
	cleaned := html.UnescapeString(s.sanitizer.Sanitize(value))
	return strings.Join(strings.Fields(cleaned), " ")
}

func (s *meiliSearchService) IndexCitizen(doc CitizenDocument) error {
	doc.FullName = s.clean(doc.FullName)
	doc.Phone = s.clean(doc.Phone)

	task, err := s.client.Index(citizenIndex).AddDocuments([]CitizenDocument{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Debug("indexed citizen", zap.Uint("citizen_id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliSearchService) DeleteCitizen(id uint) error {
	_, err := s.client.Index(citizenIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

func (s *meiliSearchService) SearchCitizens(query string, limit int64) ([]uint, error) {
	raw, err := s.client.Index(citizenIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Hits []struct {
			ID uint `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
