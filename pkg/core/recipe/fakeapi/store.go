package fakeapi

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists   = errors.New("username already exists")
	errBadLogin     = errors.New("invalid credentials")
	errNoSuchRecipe = errors.New("recipe not found")
)

type user struct {
	ID           int64
	Username     string
	Role         string
	PasswordHash []byte
}

// Recipe 与后端表结构一致，tags 是逗号分隔的字符串
type Recipe struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"-"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Ingredients string  `json:"ingredients"`
	Steps       string  `json:"steps"`
	Tags        string  `json:"tags"`
	Difficulty  string  `json:"difficulty"`
	PrepTime    int     `json:"prep_time"`
	CookTime    int     `json:"cook_time"`
	Servings    int     `json:"servings"`
	ImageURL    string  `json:"image_url"`
	Author      string  `json:"author"`
	Ratings     []int   `json:"-"`
	AvgRating   float64 `json:"avg_rating"`
	Votes       int     `json:"votes"`
}

type summary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Difficulty  string `json:"difficulty"`
	PrepTime    int    `json:"prep_time"`
	CookTime    int    `json:"cook_time"`
	ImageURL    string `json:"image_url"`
	Author      string `json:"author"`
}

// Store 内存版用户与菜谱数据
type Store struct {
	mu      sync.RWMutex
	users   map[string]*user
	recipes []*Recipe
	nextID  int64
}

func NewStore() *Store {
	return &Store{users: map[string]*user{}, nextID: 1}
}

func (s *Store) AddUser(username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return 0, errUserExists
	}
	id := int64(len(s.users) + 1)
	s.users[username] = &user{ID: id, Username: username, Role: "user", PasswordHash: hash}
	return id, nil
}

func (s *Store) authenticate(username, password string) (*user, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return nil, errBadLogin
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, errBadLogin
	}
	return u, nil
}

func (s *Store) userByID(id int64) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// AddRecipe 作者必须已注册，difficulty 为空时写入 medium
func (s *Store) AddRecipe(author string, r Recipe) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[author]
	if !ok {
		return 0, errBadLogin
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
	r.ID = s.nextID
	r.UserID = u.ID
	r.Author = u.Username
	s.nextID++
	s.recipes = append(s.recipes, &r)
	return r.ID, nil
}

// list 按创建时间倒序，tag 与 search 同时给出时取交集
func (s *Store) list(search, tag string) []summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search, tag = strings.ToLower(search), strings.ToLower(tag)
	out := make([]summary, 0, len(s.recipes))
	for _, r := range s.recipes {
		if tag != "" && !strings.Contains(strings.ToLower(r.Tags), tag) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Title), search) &&
			!strings.Contains(strings.ToLower(r.Description), search) {
			continue
		}
		out = append(out, summary{
			ID: r.ID, Title: r.Title, Description: r.Description, Tags: r.Tags,
			Difficulty: r.Difficulty, PrepTime: r.PrepTime, CookTime: r.CookTime,
			ImageURL: r.ImageURL, Author: r.Author,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) get(id int64) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recipes {
		if r.ID == id {
			out := *r
			out.Votes = len(r.Ratings)
			if out.Votes > 0 {
				sum := 0
				for _, v := range r.Ratings {
					sum += v
				}
				out.AvgRating = float64(sum) / float64(out.Votes)
			}
			return out, nil
		}
	}
	return Recipe{}, errNoSuchRecipe
}

func (s *Store) Rate(id int64, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipes {
		if r.ID == id {
			r.Ratings = append(r.Ratings, rating)
			return nil
		}
	}
	return errNoSuchRecipe
}
