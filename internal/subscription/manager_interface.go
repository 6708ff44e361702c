package subscription

import "github.com/VitaminP8/blogery/models"

type Manager interface {
	Subscribe(postID uint) (<-chan *models.CommentView, func())
	Publish(postID uint, comment *models.CommentView)
}
