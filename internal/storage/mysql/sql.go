package mysql

// -----------------------------------------------------------------------------
// EXPERIENCES
// -----------------------------------------------------------------------------

const experienceColumns = `
  id, title, description, location, image_url, price_cents, duration, capacity,
  difficulty, features, has_game, game_id, available_dates, created_at, updated_at`

const upsertExperienceSQL = `
INSERT INTO experiences
  (id, title, description, location, image_url, price_cents, duration, capacity,
   difficulty, features, has_game, game_id, available_dates, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP(6)))
ON DUPLICATE KEY UPDATE
  title           = VALUES(title),
  description     = VALUES(description),
  location        = VALUES(location),
  image_url       = VALUES(image_url),
  price_cents     = VALUES(price_cents),
  duration        = VALUES(duration),
  capacity        = VALUES(capacity),
  difficulty      = VALUES(difficulty),
  features        = VALUES(features),
  has_game        = VALUES(has_game),
  game_id         = VALUES(game_id),
  available_dates = VALUES(available_dates),
  updated_at      = CURRENT_TIMESTAMP(6)
`

const deleteExperienceSQL = `DELETE FROM experiences WHERE id = ?`

// Newest first; id breaks ties so the order is deterministic.
const listExperiencesSQL = `SELECT` + experienceColumns + `
FROM experiences
ORDER BY created_at DESC, id DESC
`

const getExperienceSQL = `SELECT` + experienceColumns + `
FROM experiences
WHERE id = ?
`

// Row lock held until the booking transaction commits.
const lockExperienceSlotsSQL = `
SELECT capacity, available_dates
FROM experiences
WHERE id = ?
FOR UPDATE
`

const updateExperienceSlotsSQL = `
UPDATE experiences
SET available_dates = ?, updated_at = CURRENT_TIMESTAMP(6)
WHERE id = ?
`

const insertMissSQL = `
INSERT INTO import_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings
  (id, user_id, experience_id, booking_date, number_of_people, status, total_price_cents, reward_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const bookingColumns = `
  b.id, b.user_id, b.experience_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.number_of_people,
  b.status, b.total_price_cents, b.reward_id, b.created_at,
  e.id, e.title, e.location, e.image_url`

const listUserBookingsSQL = `SELECT` + bookingColumns + `
FROM bookings b
LEFT JOIN experiences e ON e.id = b.experience_id
WHERE b.user_id = ?
ORDER BY b.created_at DESC, b.id DESC
`

const getUserBookingSQL = `SELECT` + bookingColumns + `
FROM bookings b
LEFT JOIN experiences e ON e.id = b.experience_id
WHERE b.user_id = ? AND b.id = ?
`

const countUserBookingsSQL = `SELECT COUNT(*) FROM bookings WHERE user_id = ?`

// -----------------------------------------------------------------------------
// GAMES
// -----------------------------------------------------------------------------

// score is assigned last: MySQL evaluates assignments left to right, so the
// other columns still compare against the old score.
const upsertHighScoreSQL = `
INSERT INTO game_scores
  (id, user_id, experience_id, score, completed, rewards_earned)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  completed      = IF(VALUES(score) > score, VALUES(completed), completed),
  rewards_earned = IF(VALUES(score) > score, VALUES(rewards_earned), rewards_earned),
  updated_at     = IF(VALUES(score) > score, CURRENT_TIMESTAMP(6), updated_at),
  score          = IF(VALUES(score) > score, VALUES(score), score)
`

const listScoresSQL = `
SELECT id, user_id, experience_id, score, completed, rewards_earned, created_at, updated_at
FROM game_scores
WHERE user_id = ? AND experience_id = ?
ORDER BY score DESC
`

const countCompletedGamesSQL = `SELECT COUNT(*) FROM game_scores WHERE user_id = ? AND completed = 1`

const upsertProgressSQL = `
INSERT INTO user_game_progress
  (user_id, experience_id, last_score, completed, last_played_at)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  last_score     = VALUES(last_score),
  completed      = VALUES(completed),
  last_played_at = VALUES(last_played_at)
`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`

const insertProfileSQL = `
INSERT INTO user_profiles (id, email, full_name, avatar_url)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE email = VALUES(email)
`

const getUserByEmailSQL = `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`

const getUserByIDSQL = `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`

const isAdminSQL = `SELECT EXISTS(SELECT 1 FROM admins WHERE id = ?)`
