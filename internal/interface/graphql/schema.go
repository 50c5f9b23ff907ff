// Package graphql is the query/mutation front door. It dispatches the same
// operations as the REST router through a single endpoint, with lenient
// authentication: requests arrive annotated with an optional identity and
// each resolver decides whether it requires one.
package graphql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/oksasatya/go-feed-service/config"
	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
)

type Resolver struct {
	Auth  *application.AuthService
	Posts *application.PostService
	Cfg   *config.Config
}

func NewSchema(r *Resolver) (graphql.Schema, error) {
	creatorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Creator",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"creator":   &graphql.Field{Type: graphql.NewNonNull(creatorType)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"posts":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
		},
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	postsDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostsData",
		Fields: graphql.Fields{
			"posts":      &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(postType))},
			"totalPosts": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: authDataType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"posts": &graphql.Field{
				Type: postsDataType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.posts,
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.post,
			},
			"user": &graphql.Field{
				Type:    userType,
				Resolve: r.user,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: r.createUser,
			},
			"createPost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInputType)},
				},
				Resolve: r.createPost,
			},
			"updatePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInputType)},
				},
				Resolve: r.updatePost,
			},
			"deletePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deletePost,
			},
			"updateStatus": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.updateStatus,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func actorFrom(ctx context.Context) (string, error) {
	userID, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return "", errNotAuthenticated
	}
	return userID, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.Auth.Login(p.Context, p.Args["email"].(string), p.Args["password"].(string))
	if err != nil {
		return nil, wrapErr(err)
	}
	return map[string]interface{}{
		"token":  res.Token,
		"userId": res.UserID,
	}, nil
}

func (r *Resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	in := p.Args["userInput"].(map[string]interface{})
	user, err := r.Auth.Register(p.Context,
		in["name"].(string), in["email"].(string), in["password"].(string),
		r.Cfg.GraphPasswordMin)
	if err != nil {
		return nil, wrapErr(err)
	}
	return userPayload(user, nil), nil
}

func (r *Resolver) user(p graphql.ResolveParams) (interface{}, error) {
	actorID, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	user, postIDs, err := r.Auth.GetUser(p.Context, actorID)
	if err != nil {
		return nil, wrapErr(err)
	}
	return userPayload(user, postIDs), nil
}

func (r *Resolver) updateStatus(p graphql.ResolveParams) (interface{}, error) {
	actorID, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	user, err := r.Auth.UpdateStatus(p.Context, actorID, p.Args["status"].(string))
	if err != nil {
		return nil, wrapErr(err)
	}
	return userPayload(user, nil), nil
}

func (r *Resolver) posts(p graphql.ResolveParams) (interface{}, error) {
	if _, err := actorFrom(p.Context); err != nil {
		return nil, err
	}
	page := 1
	if v, ok := p.Args["page"].(int); ok {
		page = v
	}
	views, total, err := r.Posts.List(p.Context, page)
	if err != nil {
		return nil, wrapErr(err)
	}
	posts := make([]interface{}, 0, len(views))
	for i := range views {
		posts = append(posts, postPayload(&views[i]))
	}
	return map[string]interface{}{
		"posts":      posts,
		"totalPosts": total,
	}, nil
}

func (r *Resolver) post(p graphql.ResolveParams) (interface{}, error) {
	if _, err := actorFrom(p.Context); err != nil {
		return nil, err
	}
	view, err := r.Posts.Get(p.Context, p.Args["id"].(string))
	if err != nil {
		return nil, wrapErr(err)
	}
	return postPayload(view), nil
}

func (r *Resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	actorID, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	in := p.Args["postInput"].(map[string]interface{})
	view, err := r.Posts.Create(p.Context, actorID, postInputFrom(in, ""))
	if err != nil {
		return nil, wrapErr(err)
	}
	return postPayload(view), nil
}

func (r *Resolver) updatePost(p graphql.ResolveParams) (interface{}, error) {
	actorID, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	id := p.Args["id"].(string)
	in := p.Args["postInput"].(map[string]interface{})

	input := postInputFrom(in, "")
	if input.ImageURL == "" || input.ImageURL == "undefined" {
		// no replacement picked; keep the currently stored asset
		current, gerr := r.Posts.Get(p.Context, id)
		if gerr != nil {
			return nil, wrapErr(gerr)
		}
		input.ImageURL = current.ImageURL
	}

	view, err := r.Posts.Update(p.Context, actorID, id, input)
	if err != nil {
		return nil, wrapErr(err)
	}
	return postPayload(view), nil
}

func (r *Resolver) deletePost(p graphql.ResolveParams) (interface{}, error) {
	actorID, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	view, err := r.Posts.Delete(p.Context, actorID, p.Args["id"].(string))
	if err != nil {
		return nil, wrapErr(err)
	}
	return postPayload(view), nil
}

func postInputFrom(in map[string]interface{}, imageURL string) application.PostInput {
	input := application.PostInput{ImageURL: imageURL}
	if v, ok := in["title"].(string); ok {
		input.Title = v
	}
	if v, ok := in["content"].(string); ok {
		input.Content = v
	}
	if v, ok := in["imageUrl"].(string); ok && v != "" {
		input.ImageURL = v
	}
	return input
}

func postPayload(v *application.PostView) map[string]interface{} {
	return map[string]interface{}{
		"id":       v.ID,
		"title":    v.Title,
		"content":  v.Content,
		"imageUrl": v.ImageURL,
		"creator": map[string]interface{}{
			"id":   v.Creator.ID,
			"name": v.Creator.Name,
		},
		"createdAt": v.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt": v.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func userPayload(u *entity.User, postIDs []string) map[string]interface{} {
	return map[string]interface{}{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"status": u.Status,
		"posts":  postIDs,
	}
}
