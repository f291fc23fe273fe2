// devapi 启动一个内存版 RecipeHub 后端，便于本地联调页面
package main

import (
	"flag"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"recipehub-web/pkg/core/recipe/fakeapi"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "listen address")
	secret := flag.String("secret", "dev-secret", "jwt signing key")
	seed := flag.String("seed", "demo:demo", "comma separated user:password pairs to create")
	flag.Parse()

	srv, err := fakeapi.New(*addr, *secret)
	if err != nil {
		hlog.Fatalf("init fake api: %v", err)
	}

	for _, pair := range strings.Split(*seed, ",") {
		user, pass, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || user == "" {
			continue
		}
		if _, err := srv.Store.AddUser(user, pass); err != nil {
			hlog.Warnf("seed user %s: %v", user, err)
			continue
		}
		_, _ = srv.Store.AddRecipe(user, fakeapi.Recipe{
			Title:       "Pancakes",
			Description: "Fluffy weekend pancakes",
			Ingredients: "flour\nmilk\neggs",
			Steps:       "mix\nfry",
			Tags:        "breakfast",
			PrepTime:    10,
			CookTime:    15,
			Servings:    4,
		})
	}

	hlog.Infof("fake RecipeHub API on %s", srv.URL())
	srv.Hertz().Spin()
}
