package services

import (
	"context"
	"math"
	"time"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
)

type AdminService interface {
	GetStats(ctx context.Context) (models.PlatformStats, error)
}

type adminService struct {
	stats repositories.StatsRepository
}

func NewAdminService(stats repositories.StatsRepository) AdminService {
	return &adminService{stats: stats}
}

func (s *adminService) GetStats(ctx context.Context) (models.PlatformStats, error) {
	now := time.Now()

	totalUsers, err := s.stats.CountUsers(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}
	totalTournaments, err := s.stats.CountTournaments(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}
	totalEnrollments, err := s.stats.CountEnrollments(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}
	bySport, err := s.stats.TournamentsBySport(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}
	byGender, err := s.stats.EnrollmentsByGender(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}
	upcoming, err := s.stats.CountUpcomingTournaments(ctx, now)
	if err != nil {
		return models.PlatformStats{}, err
	}
	past, err := s.stats.CountPastTournaments(ctx, now)
	if err != nil {
		return models.PlatformStats{}, err
	}
	avgRating, err := s.stats.AverageTestimonialRating(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}

	return models.PlatformStats{
		TotalUsers:           totalUsers,
		TotalTournaments:     totalTournaments,
		TotalEnrollments:     totalEnrollments,
		TournamentsBySport:   bySport,
		EnrollmentsByGender:  byGender,
		UpcomingTournaments:  upcoming,
		PastTournaments:      past,
		AverageTestimonyMark: math.Round(avgRating*100) / 100,
	}, nil
}
