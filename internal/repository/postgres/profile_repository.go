package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	id, name, bio, avatar_url, video_intro_url, van_type, travel_style,
	on_road_since, status, latitude, longitude, location_name,
	location_updated_at, looking_for, gender, interested_in, age,
	is_verified, is_builder, builder_specialty, builder_rate,
	builder_description, premium_until, stripe_customer_id,
	created_at, updated_at
`

func scanProfile(row interface{ Scan(...interface{}) error }, p *domain.Profile, extra ...interface{}) error {
	dest := []interface{}{
		&p.ID, &p.Name, &p.Bio, &p.AvatarURL, &p.VideoIntroURL, &p.VanType,
		&p.TravelStyle, &p.OnRoadSince, &p.Status, &p.Latitude, &p.Longitude,
		&p.LocationName, &p.LocationUpdatedAt, pq.Array(&p.LookingFor),
		&p.Gender, pq.Array(&p.InterestedIn), &p.Age, &p.IsVerified,
		&p.IsBuilder, &p.BuilderSpecialty, &p.BuilderRate,
		&p.BuilderDescription, &p.PremiumUntil, &p.StripeCustomerID,
		&p.CreatedAt, &p.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, name, bio, avatar_url, video_intro_url, van_type, travel_style,
			on_road_since, status, latitude, longitude, location_name,
			location_updated_at, looking_for, gender, interested_in, age,
			is_verified, is_builder, builder_specialty, builder_rate,
			builder_description, premium_until
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.Name, profile.Bio, profile.AvatarURL,
		profile.VideoIntroURL, profile.VanType, profile.TravelStyle,
		profile.OnRoadSince, profile.Status, profile.Latitude, profile.Longitude,
		profile.LocationName, profile.LocationUpdatedAt,
		pq.Array(profile.LookingFor), profile.Gender,
		pq.Array(profile.InterestedIn), profile.Age, profile.IsVerified,
		profile.IsBuilder, profile.BuilderSpecialty, profile.BuilderRate,
		profile.BuilderDescription, profile.PremiumUntil,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	err := scanProfile(r.db.QueryRowContext(ctx, query, id), &profile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, bio = $2, avatar_url = $3, video_intro_url = $4,
		    van_type = $5, travel_style = $6, on_road_since = $7, status = $8,
		    looking_for = $9, gender = $10, interested_in = $11, age = $12,
		    is_builder = $13, builder_specialty = $14, builder_rate = $15,
		    builder_description = $16, updated_at = CURRENT_TIMESTAMP
		WHERE id = $17
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.Name, profile.Bio, profile.AvatarURL, profile.VideoIntroURL,
		profile.VanType, profile.TravelStyle, profile.OnRoadSince, profile.Status,
		pq.Array(profile.LookingFor), profile.Gender,
		pq.Array(profile.InterestedIn), profile.Age, profile.IsBuilder,
		profile.BuilderSpecialty, profile.BuilderRate, profile.BuilderDescription,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64, name *string) error {
	query := `
		UPDATE profiles
		SET latitude = $1, longitude = $2, location_name = $3,
		    location_updated_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, lat, lng, name, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// Nearby is the server side of the nearby_profiles contract: haversine
// distance over profiles that are onboarded, locatable, looking for the given
// mode, and not the caller.
func (r *profileRepository) Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error) {
	query := `
		SELECT * FROM (
			SELECT ` + profileColumns + `,
			       6371 * acos(least(1.0,
			           cos(radians($2)) * cos(radians(latitude)) *
			           cos(radians(longitude) - radians($3)) +
			           sin(radians($2)) * sin(radians(latitude))
			       )) AS distance_km
			FROM profiles
			WHERE id <> $1
			  AND latitude IS NOT NULL
			  AND longitude IS NOT NULL
			  AND name <> ''
			  AND avatar_url IS NOT NULL
			  AND $4 = ANY(looking_for)
		) candidates
		WHERE distance_km <= $5
		ORDER BY distance_km ASC
		LIMIT $6
	`
	rows, err := r.db.QueryContext(ctx, query, userID, lat, lng, string(mode), radiusKm, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]domain.NearbyProfile, 0)
	for rows.Next() {
		var np domain.NearbyProfile
		if err := scanProfile(rows, &np.Profile, &np.DistanceKm); err != nil {
			return nil, err
		}
		profiles = append(profiles, np)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) ListBuilders(ctx context.Context, limit, offset int) ([]domain.BuilderProfile, error) {
	query := `
		SELECT ` + prefixedProfileColumns("p") + `,
		       COALESCE(AVG(br.rating), 0) AS average_rating,
		       COUNT(br.id) AS review_count
		FROM profiles p
		LEFT JOIN builder_reviews br ON br.builder_id = p.id
		WHERE p.is_builder = true
		GROUP BY p.id
		ORDER BY average_rating DESC, review_count DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builders := make([]domain.BuilderProfile, 0)
	for rows.Next() {
		var bp domain.BuilderProfile
		if err := scanProfile(rows, &bp.Profile, &bp.AverageRating, &bp.ReviewCount); err != nil {
			return nil, err
		}
		builders = append(builders, bp)
	}
	return builders, rows.Err()
}

func (r *profileRepository) GetBuilder(ctx context.Context, id string) (*domain.BuilderProfile, error) {
	query := `
		SELECT ` + prefixedProfileColumns("p") + `,
		       COALESCE(AVG(br.rating), 0) AS average_rating,
		       COUNT(br.id) AS review_count
		FROM profiles p
		LEFT JOIN builder_reviews br ON br.builder_id = p.id
		WHERE p.id = $1 AND p.is_builder = true
		GROUP BY p.id
	`
	var bp domain.BuilderProfile
	err := scanProfile(r.db.QueryRowContext(ctx, query, id), &bp.Profile, &bp.AverageRating, &bp.ReviewCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &bp, nil
}

func prefixedProfileColumns(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.bio, ` + alias + `.avatar_url,
		` + alias + `.video_intro_url, ` + alias + `.van_type, ` + alias + `.travel_style,
		` + alias + `.on_road_since, ` + alias + `.status, ` + alias + `.latitude,
		` + alias + `.longitude, ` + alias + `.location_name, ` + alias + `.location_updated_at,
		` + alias + `.looking_for, ` + alias + `.gender, ` + alias + `.interested_in,
		` + alias + `.age, ` + alias + `.is_verified, ` + alias + `.is_builder,
		` + alias + `.builder_specialty, ` + alias + `.builder_rate,
		` + alias + `.builder_description, ` + alias + `.premium_until,
		` + alias + `.stripe_customer_id, ` + alias + `.created_at, ` + alias + `.updated_at`
}
