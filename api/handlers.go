package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	filetree "github.com/prati1/file-tree-render"
)

type createFileRequest struct {
	Name      string `json:"name" binding:"required"`
	Extension string `json:"extension"`
}

type createDirRequest struct {
	Name string `json:"name" binding:"required"`
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

// getNode serves GET /nodes and GET /nodes/:id. Reads go through the cache
// when one is wired; the store default ("" means root) applies either way.
func (s *Server) getNode(c *gin.Context) {
	id := c.Param("id")

	var (
		node filetree.Node
		err  error
	)
	if s.cache != nil {
		node, err = s.cache.Get(id)
	} else {
		node, err = s.store.Get(id)
	}
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) search(c *gin.Context) {
	query := c.Query("q")
	c.JSON(http.StatusOK, gin.H{"results": s.store.Search(query)})
}

func (s *Server) createFile(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := s.store.CreateFile(c.Param("id"), req.Name, req.Extension)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (s *Server) createDir(c *gin.Context) {
	var req createDirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := s.store.CreateDir(c.Param("id"), req.Name)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (s *Server) rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := s.store.Rename(c.Param("id"), req.Name)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) deleteNode(c *gin.Context) {
	deleted, err := s.store.Delete(c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *Server) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) reset(c *gin.Context) {
	s.store.Reset()
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	resp := gin.H{"nodes": s.store.Len()}
	if s.cache != nil {
		resp["cache"] = s.cache.Stats()
	}
	c.JSON(http.StatusOK, resp)
}
