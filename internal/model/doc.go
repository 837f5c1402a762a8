package model

// Package model defines the download task structures shared by the download
// service, the desktop UI and the sync CLI, together with the task status enum.
