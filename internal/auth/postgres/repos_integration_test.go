// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/auth/postgres"
)

var _ = Describe("auth repositories", func() {
	var (
		ctx      context.Context
		users    *postgres.UserRepository
		sessions *postgres.SessionRepository
		resets   *postgres.PasswordResetRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx)
		users = postgres.NewUserRepository(testPool)
		sessions = postgres.NewSessionRepository(testPool)
		resets = postgres.NewPasswordResetRepository(testPool)
	})

	createUser := func(email string) *auth.User {
		user, err := auth.NewUser(email, "$argon2id$initial")
		Expect(err).NotTo(HaveOccurred())
		Expect(users.Create(ctx, user)).To(Succeed())
		return user
	}

	Describe("UserRepository", func() {
		It("round-trips a user by email and id", func() {
			user := createUser("a@x.com")

			byEmail, err := users.GetByEmail(ctx, "a@x.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(byEmail.ID).To(Equal(user.ID))
			Expect(byEmail.IsActive).To(BeTrue())

			byID, err := users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.Email).To(Equal("a@x.com"))
		})

		It("rejects a duplicate email", func() {
			createUser("a@x.com")
			dup, err := auth.NewUser("a@x.com", "$argon2id$other")
			Expect(err).NotTo(HaveOccurred())

			Expect(users.Create(ctx, dup)).To(MatchError(auth.ErrUserAlreadyExists))
		})

		It("reports a missing user as not found", func() {
			_, err := users.GetByEmail(ctx, "nobody@x.com")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("updates the password hash", func() {
			user := createUser("a@x.com")
			Expect(users.UpdatePassword(ctx, user.ID, "$argon2id$next")).To(Succeed())

			got, err := users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PasswordHash).To(Equal("$argon2id$next"))
		})
	})

	Describe("SessionRepository", func() {
		It("loads a session with its owner", func() {
			user := createUser("a@x.com")
			session, err := auth.NewSession(user.ID, auth.DeviceInfo{UserAgent: "curl/8", IPAddress: "::1"}, time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions.Create(ctx, session)).To(Succeed())

			got, err := sessions.GetWithOwner(ctx, session.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserAgent).To(Equal("curl/8"))
			Expect(got.Owner).NotTo(BeNil())
			Expect(got.Owner.Email).To(Equal("a@x.com"))
		})

		It("lets exactly one concurrent delete win", func() {
			user := createUser("a@x.com")
			session, err := auth.NewSession(user.ID, auth.DeviceInfo{}, time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions.Create(ctx, session)).To(Succeed())

			var (
				wg      sync.WaitGroup
				winners atomic.Int32
			)
			for range 8 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					removed, err := sessions.Delete(ctx, session.ID)
					Expect(err).NotTo(HaveOccurred())
					if removed {
						winners.Add(1)
					}
				}()
			}
			wg.Wait()

			Expect(winners.Load()).To(Equal(int32(1)))
			_, err = sessions.GetWithOwner(ctx, session.ID)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("deletes every session of a user", func() {
			user := createUser("a@x.com")
			other := createUser("b@x.com")
			for _, id := range []ulid.ULID{user.ID, user.ID, other.ID} {
				s, err := auth.NewSession(id, auth.DeviceInfo{}, time.Hour)
				Expect(err).NotTo(HaveOccurred())
				Expect(sessions.Create(ctx, s)).To(Succeed())
			}

			Expect(sessions.DeleteByUser(ctx, user.ID)).To(Succeed())

			var remaining int
			Expect(testPool.QueryRow(ctx, `SELECT count(*) FROM sessions`).Scan(&remaining)).To(Succeed())
			Expect(remaining).To(Equal(1))
		})

		It("purges only expired sessions", func() {
			user := createUser("a@x.com")
			live, err := auth.NewSession(user.ID, auth.DeviceInfo{}, time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions.Create(ctx, live)).To(Succeed())

			stale := &auth.Session{
				ID:        ulid.Make(),
				UserID:    user.ID,
				CreatedAt: time.Now().Add(-2 * time.Hour),
				ExpiresAt: time.Now().Add(-time.Hour),
			}
			Expect(sessions.Create(ctx, stale)).To(Succeed())

			n, err := sessions.DeleteExpired(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			_, err = sessions.GetWithOwner(ctx, live.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("PasswordResetRepository", func() {
		newReset := func(userID ulid.ULID, expiresAt time.Time) *auth.PasswordReset {
			_, hash, err := auth.GenerateResetToken()
			Expect(err).NotTo(HaveOccurred())
			reset, err := auth.NewPasswordReset(userID, hash, expiresAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(resets.Create(ctx, reset)).To(Succeed())
			return reset
		}

		It("consumes a token and clears its siblings atomically", func() {
			user := createUser("a@x.com")
			first := newReset(user.ID, time.Now().Add(time.Hour))
			second := newReset(user.ID, time.Now().Add(time.Hour))

			Expect(resets.Consume(ctx, second, "$argon2id$reset")).To(Succeed())

			got, err := users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PasswordHash).To(Equal("$argon2id$reset"))

			_, err = resets.GetByTokenHash(ctx, first.TokenHash)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("lets exactly one concurrent consume win", func() {
			user := createUser("a@x.com")
			reset := newReset(user.ID, time.Now().Add(time.Hour))

			var (
				wg       sync.WaitGroup
				winners  atomic.Int32
				notFound atomic.Int32
			)
			for i := range 6 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					hash := "$argon2id$attempt" + string(rune('a'+i))
					switch err := resets.Consume(ctx, reset, hash); {
					case err == nil:
						winners.Add(1)
					default:
						Expect(err).To(MatchError(auth.ErrNotFound))
						notFound.Add(1)
					}
				}()
			}
			wg.Wait()

			Expect(winners.Load()).To(Equal(int32(1)))
			Expect(notFound.Load()).To(Equal(int32(5)))
		})

		It("purges expired requests", func() {
			user := createUser("a@x.com")
			newReset(user.ID, time.Now().Add(-time.Minute))
			live := newReset(user.ID, time.Now().Add(time.Hour))

			n, err := resets.DeleteExpired(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			_, err = resets.GetByTokenHash(ctx, live.TokenHash)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
