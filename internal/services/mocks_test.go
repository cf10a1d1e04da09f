package services

import (
	"database/sql"
	"fmt"
	"time"

	"diabits_backend/internal/config"
	"diabits_backend/internal/models"
	"diabits_backend/internal/repositories"

	"gorm.io/gorm"
)

// Тесты сервисов работают против in-memory фейков репозиториев.
// Фейки реализуют те же интерфейсы и те же sentinel-ошибки, что и
// реальные реализации на gorm.

func setupTestConfig() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-for-unit-tests"
	cfg.JWT.Issuer = "diabits-test"
	cfg.JWT.Audience = "diabits-test-clients"
	cfg.JWT.AccessTTLHours = 2
	cfg.JWT.RefreshTTLDays = 30
	config.AppConfig = cfg
}

// fakeTxRunner исполняет колбэк без реальной транзакции
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	f.calls++
	return fc(nil)
}

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == "" {
		f.nextID++
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(username string) (bool, error) {
	_, err := f.FindByUsername(username)
	return err == nil, nil
}

func (f *fakeUserRepo) Create(user *models.User) error {
	return f.CreateTx(nil, user)
}

func (f *fakeUserRepo) CreateTx(_ *gorm.DB, user *models.User) error {
	if taken, _ := f.ExistsByUsername(user.Username); taken {
		return repositories.ErrUserAlreadyExists
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateLastSync(userID string, syncedAt time.Time) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.LastSyncSuccess = &syncedAt
	return nil
}

func (f *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeRefreshTokenRepo struct {
	byHash map[string]*models.RefreshToken
	nextID int
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{byHash: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshTokenRepo) Create(token *models.RefreshToken) error {
	if token.ID == "" {
		f.nextID++
		token.ID = fmt.Sprintf("token-%d", f.nextID)
	}
	f.byHash[token.TokenHash] = token
	return nil
}

func (f *fakeRefreshTokenRepo) FindByHash(tokenHash string) (*models.RefreshToken, error) {
	if t, ok := f.byHash[tokenHash]; ok {
		return t, nil
	}
	return nil, repositories.ErrRefreshTokenNotFound
}

func (f *fakeRefreshTokenRepo) DeleteByHash(tokenHash string) error {
	delete(f.byHash, tokenHash)
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteByID(id string) error {
	for hash, t := range f.byHash {
		if t.ID == id {
			delete(f.byHash, hash)
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(before time.Time) (int64, error) {
	var removed int64
	for hash, t := range f.byHash {
		if t.ExpiresAt.Before(before) {
			delete(f.byHash, hash)
			removed++
		}
	}
	return removed, nil
}

type fakeInviteRepo struct {
	invites []*models.Invite
	nextID  int
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{}
}

func (f *fakeInviteRepo) add(invite *models.Invite) *models.Invite {
	if invite.ID == "" {
		f.nextID++
		invite.ID = fmt.Sprintf("invite-%d", f.nextID)
	}
	f.invites = append(f.invites, invite)
	return invite
}

func (f *fakeInviteRepo) Create(invite *models.Invite) error {
	if exists, _ := f.ExistsByEmail(invite.Email); exists {
		return repositories.ErrInviteAlreadyExists
	}
	f.add(invite)
	return nil
}

func (f *fakeInviteRepo) FindByID(id string) (*models.Invite, error) {
	for _, inv := range f.invites {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, repositories.ErrInviteNotFound
}

func (f *fakeInviteRepo) FindUnusedByCode(code string) (*models.Invite, error) {
	for _, inv := range f.invites {
		if inv.Code == code && inv.UsedAt == nil {
			return inv, nil
		}
	}
	return nil, repositories.ErrInviteNotFound
}

func (f *fakeInviteRepo) ExistsByEmail(email string) (bool, error) {
	for _, inv := range f.invites {
		if inv.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInviteRepo) UpdateTx(_ *gorm.DB, invite *models.Invite) error {
	for i, inv := range f.invites {
		if inv.ID == invite.ID {
			f.invites[i] = invite
			return nil
		}
	}
	return repositories.ErrInviteNotFound
}

func (f *fakeInviteRepo) FindAll() ([]models.Invite, error) {
	out := make([]models.Invite, 0, len(f.invites))
	for i := len(f.invites) - 1; i >= 0; i-- {
		out = append(out, *f.invites[i])
	}
	return out, nil
}

// fakeHealthRepo держит записи всех семи типов в памяти.
// Фильтрация по пользователю и времени повторяет SQL-условия реальной
// реализации: [from, +inf) для окна дедупликации, [from, to) для выборок.
type fakeHealthRepo struct {
	glucose       []models.GlucoseLevel
	heartRates    []models.HeartRate
	steps         []models.Step
	sleepSessions []models.SleepSession
	workouts      []models.Workout
	medications   []models.Medication
	menstruations []models.Menstruation

	txCalls int
	nextID  int
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{}
}

func (f *fakeHealthRepo) newID() string {
	f.nextID++
	return fmt.Sprintf("hd-%d", f.nextID)
}

func (f *fakeHealthRepo) Transaction(fn func(tx *gorm.DB) error) error {
	f.txCalls++
	return fn(nil)
}

func (f *fakeHealthRepo) SaveGlucoseLevelsTx(_ *gorm.DB, records []models.GlucoseLevel) error {
	for i := range records {
		records[i].ID = f.newID()
		f.glucose = append(f.glucose, records[i])
	}
	return nil
}

func (f *fakeHealthRepo) SaveHeartRatesTx(_ *gorm.DB, records []models.HeartRate) error {
	for i := range records {
		records[i].ID = f.newID()
		f.heartRates = append(f.heartRates, records[i])
	}
	return nil
}

func (f *fakeHealthRepo) SaveStepsTx(_ *gorm.DB, records []models.Step) error {
	for i := range records {
		records[i].ID = f.newID()
		f.steps = append(f.steps, records[i])
	}
	return nil
}

func (f *fakeHealthRepo) SaveSleepSessionsTx(_ *gorm.DB, records []models.SleepSession) error {
	for i := range records {
		records[i].ID = f.newID()
		f.sleepSessions = append(f.sleepSessions, records[i])
	}
	return nil
}

func (f *fakeHealthRepo) SaveWorkoutsTx(_ *gorm.DB, records []models.Workout) error {
	for i := range records {
		records[i].ID = f.newID()
		f.workouts = append(f.workouts, records[i])
	}
	return nil
}

func (f *fakeHealthRepo) SaveMedicationsTx(_ *gorm.DB, records []models.Medication) error {
	for i := range records {
		records[i].ID = f.newID()
		f.medications = append(f.medications, records[i])
	}
	return nil
}

func (f *fakeHealthRepo) SaveMenstruationsTx(_ *gorm.DB, records []models.Menstruation) error {
	for i := range records {
		records[i].ID = f.newID()
		f.menstruations = append(f.menstruations, records[i])
	}
	return nil
}

func matchFrom(fields models.DataPointFields, userID string, from time.Time) bool {
	return fields.UserID == userID && !fields.StartTime.Before(from)
}

func matchRange(fields models.DataPointFields, userID string, from, to time.Time) bool {
	return fields.UserID == userID && !fields.StartTime.Before(from) && fields.StartTime.Before(to)
}

func (f *fakeHealthRepo) FindGlucoseFrom(userID string, from time.Time) ([]models.GlucoseLevel, error) {
	var out []models.GlucoseLevel
	for _, r := range f.glucose {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindHeartRatesFrom(userID string, from time.Time) ([]models.HeartRate, error) {
	var out []models.HeartRate
	for _, r := range f.heartRates {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindStepsFrom(userID string, from time.Time) ([]models.Step, error) {
	var out []models.Step
	for _, r := range f.steps {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindSleepSessionsFrom(userID string, from time.Time) ([]models.SleepSession, error) {
	var out []models.SleepSession
	for _, r := range f.sleepSessions {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindWorkoutsFrom(userID string, from time.Time) ([]models.Workout, error) {
	var out []models.Workout
	for _, r := range f.workouts {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindMedicationsFrom(userID string, from time.Time) ([]models.Medication, error) {
	var out []models.Medication
	for _, r := range f.medications {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindMenstruationsFrom(userID string, from time.Time) ([]models.Menstruation, error) {
	var out []models.Menstruation
	for _, r := range f.menstruations {
		if matchFrom(r.DataPointFields, userID, from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindGlucoseInRange(userID string, from, to time.Time) ([]models.GlucoseLevel, error) {
	var out []models.GlucoseLevel
	for _, r := range f.glucose {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindHeartRatesInRange(userID string, from, to time.Time) ([]models.HeartRate, error) {
	var out []models.HeartRate
	for _, r := range f.heartRates {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindStepsInRange(userID string, from, to time.Time) ([]models.Step, error) {
	var out []models.Step
	for _, r := range f.steps {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindSleepSessionsInRange(userID string, from, to time.Time) ([]models.SleepSession, error) {
	var out []models.SleepSession
	for _, r := range f.sleepSessions {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindWorkoutsInRange(userID string, from, to time.Time) ([]models.Workout, error) {
	var out []models.Workout
	for _, r := range f.workouts {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindMedicationsInRange(userID string, from, to time.Time) ([]models.Medication, error) {
	var out []models.Medication
	for _, r := range f.medications {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) FindMenstruationsInRange(userID string, from, to time.Time) ([]models.Menstruation, error) {
	var out []models.Menstruation
	for _, r := range f.menstruations {
		if matchRange(r.DataPointFields, userID, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealthRepo) UpdateMedication(userID string, record *models.Medication) (bool, error) {
	for i := range f.medications {
		if f.medications[i].ID == record.ID && f.medications[i].UserID == userID {
			record.UserID = userID
			record.Type = models.TypeMedication
			f.medications[i] = *record
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHealthRepo) UpdateMenstruation(userID string, record *models.Menstruation) (bool, error) {
	for i := range f.menstruations {
		if f.menstruations[i].ID == record.ID && f.menstruations[i].UserID == userID {
			record.UserID = userID
			record.Type = models.TypeMenstruation
			f.menstruations[i] = *record
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHealthRepo) DeleteManualInput(userID string, ids []string) (int64, error) {
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}

	var deleted int64
	meds := f.medications[:0]
	for _, r := range f.medications {
		if wanted[r.ID] && r.UserID == userID {
			deleted++
			continue
		}
		meds = append(meds, r)
	}
	f.medications = meds

	mens := f.menstruations[:0]
	for _, r := range f.menstruations {
		if wanted[r.ID] && r.UserID == userID {
			deleted++
			continue
		}
		mens = append(mens, r)
	}
	f.menstruations = mens

	return deleted, nil
}
